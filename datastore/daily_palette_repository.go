package datastore

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/palette-peek/api/models"
)

type DailyPaletteRepository interface {
	Create(daily models.DailyPalette) (models.DailyPalette, error)
	GetByDate(date time.Time) (models.DailyPalette, error)
	GetToday() (models.DailyPalette, error)
	GetAll() ([]models.DailyPalette, error)
}

// DailyPaletteDatabase keeps featured palettes as a date -> palette map.
type DailyPaletteDatabase struct {
	mu    sync.Mutex
	store KeyValueStore
	now   func() time.Time
}

func NewDailyPaletteDatabase(store KeyValueStore) (*DailyPaletteDatabase, error) {
	if store == nil {
		return nil, fmt.Errorf("daily palette repository needs a store")
	}
	return &DailyPaletteDatabase{store: store, now: time.Now}, nil
}

// DateKey formats date as the calendar day used for lookups.
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func (dpdb *DailyPaletteDatabase) load() map[string]models.Palette {
	byDate := map[string]models.Palette{}
	GetJSON(dpdb.store, DailyPaletteKey, &byDate)
	return byDate
}

// Create stores daily for its date. An existing entry for that date is kept.
func (dpdb *DailyPaletteDatabase) Create(daily models.DailyPalette) (models.DailyPalette, error) {
	dpdb.mu.Lock()
	defer dpdb.mu.Unlock()

	byDate := dpdb.load()
	if existing, ok := byDate[daily.Date]; ok {
		return models.DailyPalette{Date: daily.Date, Palette: existing}, nil
	}

	byDate[daily.Date] = daily.Palette
	if err := SetJSON(dpdb.store, DailyPaletteKey, byDate); err != nil {
		return models.DailyPalette{}, fmt.Errorf("failed to create daily palette: %v", err)
	}
	return daily, nil
}

func (dpdb *DailyPaletteDatabase) GetByDate(date time.Time) (models.DailyPalette, error) {
	dpdb.mu.Lock()
	defer dpdb.mu.Unlock()

	key := DateKey(date)
	palette, ok := dpdb.load()[key]
	if !ok {
		return models.DailyPalette{}, NoRowsError{true, fmt.Errorf("no palette for %s", key)}
	}
	return models.DailyPalette{Date: key, Palette: palette}, nil
}

func (dpdb *DailyPaletteDatabase) GetToday() (models.DailyPalette, error) {
	return dpdb.GetByDate(dpdb.now())
}

// GetAll returns every featured palette, newest first.
func (dpdb *DailyPaletteDatabase) GetAll() ([]models.DailyPalette, error) {
	dpdb.mu.Lock()
	defer dpdb.mu.Unlock()

	var all []models.DailyPalette
	for date, palette := range dpdb.load() {
		all = append(all, models.DailyPalette{Date: date, Palette: palette})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Date > all[j].Date
	})
	return all, nil
}
