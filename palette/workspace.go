// Package palette holds the working palette being edited and saves snapshots
// of it for the active identity.
package palette

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/palette-peek/api/colorconv"
	"github.com/palette-peek/api/datastore"
	"github.com/palette-peek/api/models"
)

// DefaultSize is the number of colors in a freshly generated palette.
const DefaultSize = 5

// MaxSize bounds GenerateRandom.
const MaxSize = 50

// Identity is the part of session.Session the workspace reads.
type Identity interface {
	Identity() (string, bool)
	Subscribe(fn func(identity string))
}

// Workspace is the working palette plus the saved collection of the active
// identity. It is driven by one actor at a time and is not safe for
// concurrent use.
type Workspace struct {
	session  Identity
	palettes datastore.PaletteRepository
	rng      colorconv.Rand
	now      func() time.Time

	colors []models.Color
	saved  []models.Palette
}

type Option func(*Workspace)

// WithRand sets the source used by GenerateRandom.
func WithRand(rng colorconv.Rand) Option {
	return func(w *Workspace) { w.rng = rng }
}

// WithClock sets the clock used to stamp saved palettes.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// NewWorkspace creates an empty working palette bound to sess. The saved
// collection reloads whenever sess logs in or out.
func NewWorkspace(sess Identity, palettes datastore.PaletteRepository, opts ...Option) *Workspace {
	w := &Workspace{
		session:  sess,
		palettes: palettes,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.reload()
	sess.Subscribe(func(string) { w.reload() })
	return w
}

func (w *Workspace) reload() {
	w.saved = nil
	identity, ok := w.session.Identity()
	if !ok {
		return
	}
	saved, err := w.palettes.List(identity)
	if err != nil {
		log.Printf("Error loading saved palettes for %s: %v", identity, err)
		return
	}
	w.saved = saved
}

// GenerateRandom replaces the working palette with count random colors.
func (w *Workspace) GenerateRandom(count int) error {
	if count < 0 || count > MaxSize {
		return fmt.Errorf("%w: palette size %d not in [0,%d]", models.ErrOutOfRange, count, MaxSize)
	}

	colors := make([]models.Color, count)
	for i := range colors {
		colors[i] = models.RandomColor(w.rng)
	}
	w.colors = colors
	MetricColorsGenerated.Add(float64(count))
	return nil
}

// Add validates hex and appends it. The working palette is unchanged on error.
func (w *Workspace) Add(hex string) (models.Color, error) {
	color, err := models.NewColor(hex)
	if err != nil {
		MetricRejectedColors.Inc()
		return models.Color{}, err
	}
	w.colors = append(w.colors, color)
	return color, nil
}

// Remove drops the entry with id. Unknown ids are ignored.
func (w *Workspace) Remove(id string) {
	kept := make([]models.Color, 0, len(w.colors))
	for _, color := range w.colors {
		if color.ID != id {
			kept = append(kept, color)
		}
	}
	w.colors = kept
}

func (w *Workspace) Clear() {
	w.colors = nil
}

// Colors returns a copy of the working palette.
func (w *Workspace) Colors() []models.Color {
	out := make([]models.Color, len(w.colors))
	copy(out, w.colors)
	return out
}

// Save snapshots the working palette into the active identity's collection.
func (w *Workspace) Save() (models.Palette, error) {
	return w.SaveAs("")
}

// SaveAs is Save with a name attached to the snapshot.
func (w *Workspace) SaveAs(name string) (models.Palette, error) {
	identity, ok := w.session.Identity()
	if !ok {
		MetricSaves.WithLabelValues("unauthenticated").Inc()
		return models.Palette{}, models.ErrUnauthenticated
	}
	if len(w.colors) == 0 {
		MetricSaves.WithLabelValues("empty").Inc()
		return models.Palette{}, models.ErrEmptyPalette
	}

	palette := models.NewPalette(name, w.colors, w.now())
	if err := w.palettes.Add(identity, palette); err != nil {
		MetricSaves.WithLabelValues("error").Inc()
		return models.Palette{}, err
	}

	w.saved = append(w.saved, palette)
	MetricSaves.WithLabelValues("saved").Inc()
	return palette, nil
}

// Saved returns the saved palettes of the active identity.
func (w *Workspace) Saved() []models.Palette {
	out := make([]models.Palette, len(w.saved))
	copy(out, w.saved)
	return out
}

// Delete removes a saved palette. The working palette is not touched.
func (w *Workspace) Delete(id string) error {
	identity, ok := w.session.Identity()
	if !ok {
		return models.ErrUnauthenticated
	}

	removed, err := w.palettes.Delete(identity, id)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	kept := w.saved[:0]
	for _, palette := range w.saved {
		if palette.ID != id {
			kept = append(kept, palette)
		}
	}
	w.saved = kept
	MetricDeletes.Inc()
	return nil
}

// ErrPaletteNotFound is returned by Load for an unknown saved palette id.
var ErrPaletteNotFound = errors.New("saved palette not found")

// Load copies a saved palette into the working palette for further editing.
// Colors get fresh ids so the saved snapshot stays independent.
func (w *Workspace) Load(id string) error {
	for _, palette := range w.saved {
		if palette.ID != id {
			continue
		}
		colors := make([]models.Color, 0, len(palette.Colors))
		for _, saved := range palette.Colors {
			color, err := models.NewColorFromRGB(saved.RGB)
			if err != nil {
				return err
			}
			colors = append(colors, color)
		}
		w.colors = colors
		return nil
	}
	return ErrPaletteNotFound
}
