package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Palette is a saved snapshot of a working palette.
type Palette struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Colors    []Color   `json:"colors"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaletteSaveRequest is the body of POST /v1/palettes.
type PaletteSaveRequest struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// NewPalette snapshots colors into a new Palette. The slice is copied.
func NewPalette(name string, colors []Color, createdAt time.Time) Palette {
	snapshot := make([]Color, len(colors))
	copy(snapshot, colors)
	return Palette{
		ID:        uuid.New().String(),
		Name:      name,
		Colors:    snapshot,
		CreatedAt: createdAt.UTC(),
	}
}

func (p Palette) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("Palette (%d colors)", len(p.Colors))
}

// DailyPalette is the featured palette for one calendar day.
type DailyPalette struct {
	Date    string  `json:"date"`
	Palette Palette `json:"palette"`
}
