package datastore

import (
	"fmt"
	"sync"

	"github.com/palette-peek/api/models"
)

// PaletteRepository owns the saved palettes of each identity. Identities never
// observe each other's collections.
type PaletteRepository interface {
	List(identity string) ([]models.Palette, error)
	Add(identity string, palette models.Palette) error
	Delete(identity string, paletteID string) (bool, error)
}

type PaletteDatabase struct {
	mu    sync.Mutex
	store KeyValueStore
}

func NewPaletteDatabase(store KeyValueStore) (*PaletteDatabase, error) {
	if store == nil {
		return nil, fmt.Errorf("palette repository needs a store")
	}
	return &PaletteDatabase{store: store}, nil
}

func (pdb *PaletteDatabase) load(identity string) []models.Palette {
	palettes := []models.Palette{}
	GetJSON(pdb.store, PalettesKey(identity), &palettes)
	return palettes
}

// List returns the saved palettes of identity, oldest first.
func (pdb *PaletteDatabase) List(identity string) ([]models.Palette, error) {
	if identity == "" {
		return nil, models.ErrUnauthenticated
	}

	pdb.mu.Lock()
	defer pdb.mu.Unlock()
	return pdb.load(identity), nil
}

// Add appends palette to identity's collection.
func (pdb *PaletteDatabase) Add(identity string, palette models.Palette) error {
	if identity == "" {
		return models.ErrUnauthenticated
	}

	pdb.mu.Lock()
	defer pdb.mu.Unlock()

	palettes := append(pdb.load(identity), palette)
	return SetJSON(pdb.store, PalettesKey(identity), palettes)
}

// Delete removes the palette with paletteID and reports whether it existed.
func (pdb *PaletteDatabase) Delete(identity string, paletteID string) (bool, error) {
	if identity == "" {
		return false, models.ErrUnauthenticated
	}

	pdb.mu.Lock()
	defer pdb.mu.Unlock()

	palettes := pdb.load(identity)
	kept := palettes[:0]
	for _, palette := range palettes {
		if palette.ID != paletteID {
			kept = append(kept, palette)
		}
	}
	if len(kept) == len(palettes) {
		return false, nil
	}

	if err := SetJSON(pdb.store, PalettesKey(identity), kept); err != nil {
		return false, err
	}
	return true, nil
}
