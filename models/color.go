package models

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/palette-peek/api/colorconv"
)

// Color is one palette entry. All representations are derived from a single
// input in the constructors, so they always agree.
type Color struct {
	ID  string        `json:"id"`
	Hex string        `json:"hex"`
	RGB colorconv.RGB `json:"rgb"`
	HSL colorconv.HSL `json:"hsl"`
}

// CopyFormat selects the text produced by Color.CopyText.
type CopyFormat string

const (
	CopyHex CopyFormat = "hex"
	CopyRGB CopyFormat = "rgb"
	CopyHSL CopyFormat = "hsl"
)

// NewColor parses hex (3 or 6 digits, "#" optional) into a Color with a fresh id.
func NewColor(hex string) (Color, error) {
	rgb, err := colorconv.HexToRGB(hex)
	if err != nil {
		return Color{}, err
	}
	return NewColorFromRGB(rgb)
}

func NewColorFromRGB(rgb colorconv.RGB) (Color, error) {
	hsl, err := colorconv.RGBToHSL(rgb.R, rgb.G, rgb.B)
	if err != nil {
		return Color{}, err
	}
	return Color{
		ID:  uuid.New().String(),
		Hex: rgb.Hex(),
		RGB: rgb,
		HSL: hsl,
	}, nil
}

// RandomColor draws a color from rng, see colorconv.RandomHex.
func RandomColor(rng colorconv.Rand) Color {
	color, err := NewColor(colorconv.RandomHex(rng))
	if err != nil {
		// RandomHex always yields a valid hex string.
		panic(err)
	}
	return color
}

// CopyText returns the clipboard text for the requested format.
func (c Color) CopyText(format CopyFormat) (string, error) {
	switch format {
	case CopyHex, "":
		return c.Hex, nil
	case CopyRGB:
		return fmt.Sprintf("RGB: %d, %d, %d", c.RGB.R, c.RGB.G, c.RGB.B), nil
	case CopyHSL:
		return fmt.Sprintf("HSL: %d, %d%%, %d%%", c.HSL.H, c.HSL.S, c.HSL.L), nil
	default:
		return "", fmt.Errorf("unknown copy format %q", format)
	}
}
