package session

import (
	"sync"

	"github.com/palette-peek/api/datastore"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Preferences holds the persisted UI theme.
type Preferences struct {
	mu    sync.Mutex
	store datastore.KeyValueStore
	theme Theme
}

// LoadPreferences reads the stored theme, defaulting to Light.
func LoadPreferences(store datastore.KeyValueStore) *Preferences {
	theme := Light
	datastore.GetJSON(store, datastore.ThemeKey, &theme)
	if theme != Dark {
		theme = Light
	}
	return &Preferences{store: store, theme: theme}
}

func (p *Preferences) Theme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme
}

// Toggle flips between light and dark and persists the result. The in-memory
// theme only changes when the write succeeds.
func (p *Preferences) Toggle() (Theme, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := Dark
	if p.theme == Dark {
		next = Light
	}
	if err := datastore.SetJSON(p.store, datastore.ThemeKey, next); err != nil {
		return p.theme, err
	}
	p.theme = next
	return next, nil
}
