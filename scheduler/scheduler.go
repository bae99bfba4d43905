package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/palette-peek/api/colorconv"
	"github.com/palette-peek/api/datastore"
	"github.com/palette-peek/api/models"
)

// Scheduler publishes a featured palette once per calendar day.
type Scheduler struct {
	DailyPaletteRepo datastore.DailyPaletteRepository
	Size             int
	Rand             colorconv.Rand
	Now              func() time.Time

	mu       sync.Mutex
	timer    *time.Timer
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func NewScheduler(repo datastore.DailyPaletteRepository, size int) *Scheduler {
	return &Scheduler{
		DailyPaletteRepo: repo,
		Size:             size,
		Now:              time.Now,
		done:             make(chan struct{}),
	}
}

// Start makes sure today has a palette, then runs at midnight every day
func (s *Scheduler) Start() {
	if err := s.GenerateDailyPalette(); err != nil {
		log.Printf("Error generating today's palette: %v", err)
	}

	// Calculate time until next midnight
	now := s.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	durationUntilMidnight := nextMidnight.Sub(now)

	log.Printf("Scheduler started. Next featured palette in %v", durationUntilMidnight)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = time.AfterFunc(durationUntilMidnight, func() {
		s.GenerateDailyPalette()

		s.mu.Lock()
		select {
		case <-s.done:
			s.mu.Unlock()
			return
		default:
		}
		// After first run, schedule to run every 24 hours
		s.ticker = time.NewTicker(24 * time.Hour)
		ticker := s.ticker
		s.mu.Unlock()

		go func() {
			for {
				select {
				case <-ticker.C:
					s.GenerateDailyPalette()
				case <-s.done:
					return
				}
			}
		}()
	})
}

// Stop stops the scheduler. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timer != nil {
			s.timer.Stop()
		}
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
		log.Println("Scheduler stopped")
	})
}

// GenerateDailyPalette generates and saves today's palette if it is missing
func (s *Scheduler) GenerateDailyPalette() error {
	today := s.Now()
	normalizedToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	existing, err := s.DailyPaletteRepo.GetByDate(normalizedToday)
	if err == nil {
		log.Printf("Featured palette already exists for %s: %s", existing.Date, existing.Palette.ID)
		return nil
	}
	if !datastore.IsNotFound(err) {
		log.Printf("Error looking up featured palette: %v", err)
		return err
	}

	size := s.Size
	if size <= 0 {
		size = 5
	}
	colors := make([]models.Color, size)
	for i := range colors {
		colors[i] = models.RandomColor(s.Rand)
	}

	daily := models.DailyPalette{
		Date:    datastore.DateKey(normalizedToday),
		Palette: models.NewPalette("Palette of the day", colors, today),
	}
	saved, err := s.DailyPaletteRepo.Create(daily)
	if err != nil {
		log.Printf("Error saving featured palette: %v", err)
		return err
	}

	log.Printf("Successfully generated featured palette %s with %d colors for %s",
		saved.Palette.ID, len(saved.Palette.Colors), saved.Date)
	return nil
}
