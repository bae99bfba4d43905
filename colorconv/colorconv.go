// Package colorconv converts colors between hex, RGB and HSL notation.
//
// HSL values are rounded half away from zero (math.Round) on the way out of
// RGBToHSL. Because HSL is kept as whole degrees and whole percentages, the
// integer round trip RGB -> HSL -> RGB may drift by up to 5 per channel. Use
// RGBToHSLPrecise and HSLPreciseToRGB when an exact round trip is needed.
package colorconv

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrInvalidFormat = errors.New("invalid color format")
	ErrOutOfRange    = errors.New("color value out of range")
)

var hexPattern = regexp.MustCompile(`^#?([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// Rand is satisfied by *math/rand.Rand.
type Rand interface {
	Intn(n int) int
}

type defaultRand struct{}

func (defaultRand) Intn(n int) int { return rand.Intn(n) }

// RGB holds 8-bit channels stored as ints in [0,255].
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// HSL holds hue in whole degrees [0,360) and saturation/lightness in whole
// percent [0,100].
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// HSLPrecise is the unrounded form of HSL. S and L are fractions in [0,1].
type HSLPrecise struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// NewRGB validates the channels and returns an RGB.
func NewRGB(r, g, b int) (RGB, error) {
	if err := checkChannels(r, g, b); err != nil {
		return RGB{}, err
	}
	return RGB{R: r, G: g, B: b}, nil
}

// NewHSL validates the components and returns an HSL.
func NewHSL(h, s, l int) (HSL, error) {
	if h < 0 || h >= 360 {
		return HSL{}, fmt.Errorf("%w: hue %d not in [0,360)", ErrOutOfRange, h)
	}
	if s < 0 || s > 100 {
		return HSL{}, fmt.Errorf("%w: saturation %d not in [0,100]", ErrOutOfRange, s)
	}
	if l < 0 || l > 100 {
		return HSL{}, fmt.Errorf("%w: lightness %d not in [0,100]", ErrOutOfRange, l)
	}
	return HSL{H: h, S: s, L: l}, nil
}

func checkChannels(r, g, b int) error {
	for _, ch := range []struct {
		name  string
		value int
	}{{"red", r}, {"green", g}, {"blue", b}} {
		if ch.value < 0 || ch.value > 255 {
			return fmt.Errorf("%w: %s channel %d not in [0,255]", ErrOutOfRange, ch.name, ch.value)
		}
	}
	return nil
}

// RandomHex returns a uniformly random "#RRGGBB" color. A nil rng uses the
// shared math/rand source.
func RandomHex(rng Rand) string {
	if rng == nil {
		rng = defaultRand{}
	}
	return formatHex(rng.Intn(256), rng.Intn(256), rng.Intn(256))
}

// HexToRGB parses "#RGB", "#RRGGBB", "RGB" or "RRGGBB".
func HexToRGB(hex string) (RGB, error) {
	hex = strings.TrimSpace(hex)
	match := hexPattern.FindStringSubmatch(hex)
	if match == nil {
		return RGB{}, fmt.Errorf("%w: %q is not #RGB or #RRGGBB", ErrInvalidFormat, hex)
	}

	digits := match[1]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}

	value, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	return RGB{
		R: int(value >> 16 & 0xFF),
		G: int(value >> 8 & 0xFF),
		B: int(value & 0xFF),
	}, nil
}

// NormalizeHex returns the canonical uppercase "#RRGGBB" form of hex.
func NormalizeHex(hex string) (string, error) {
	rgb, err := HexToRGB(hex)
	if err != nil {
		return "", err
	}
	return rgb.Hex(), nil
}

// RGBToHex formats the channels as uppercase "#RRGGBB".
func RGBToHex(r, g, b int) (string, error) {
	if err := checkChannels(r, g, b); err != nil {
		return "", err
	}
	return formatHex(r, g, b), nil
}

func formatHex(r, g, b int) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// RGBToHSLPrecise returns the unrounded HSL form of the channels.
func RGBToHSLPrecise(r, g, b int) (HSLPrecise, error) {
	if err := checkChannels(r, g, b); err != nil {
		return HSLPrecise{}, err
	}
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	return HSLPrecise{H: h, S: s, L: l}, nil
}

// RGBToHSL converts the channels to whole-number HSL. Achromatic colors
// always report hue 0 and saturation 0.
func RGBToHSL(r, g, b int) (HSL, error) {
	p, err := RGBToHSLPrecise(r, g, b)
	if err != nil {
		return HSL{}, err
	}

	h := int(math.Round(p.H))
	if h >= 360 {
		h -= 360
	}
	return HSL{
		H: h,
		S: int(math.Round(p.S * 100)),
		L: int(math.Round(p.L * 100)),
	}, nil
}

// HSLPreciseToRGB converts unrounded HSL back to 8-bit channels.
func HSLPreciseToRGB(p HSLPrecise) (RGB, error) {
	if math.IsNaN(p.H) || p.H < 0 || p.H >= 360 ||
		math.IsNaN(p.S) || p.S < 0 || p.S > 1 ||
		math.IsNaN(p.L) || p.L < 0 || p.L > 1 {
		return RGB{}, fmt.Errorf("%w: hsl(%g, %g, %g)", ErrOutOfRange, p.H, p.S, p.L)
	}
	r, g, b := colorful.Hsl(p.H, p.S, p.L).Clamped().RGB255()
	return RGB{R: int(r), G: int(g), B: int(b)}, nil
}

// HSLToRGB converts whole-number HSL back to 8-bit channels.
func HSLToRGB(h, s, l int) (RGB, error) {
	if _, err := NewHSL(h, s, l); err != nil {
		return RGB{}, err
	}
	return HSLPreciseToRGB(HSLPrecise{H: float64(h), S: float64(s) / 100, L: float64(l) / 100})
}

// Hex returns the uppercase "#RRGGBB" form. The receiver is assumed valid.
func (c RGB) Hex() string {
	return formatHex(c.R, c.G, c.B)
}

// HSL returns the whole-number HSL form of c.
func (c RGB) HSL() (HSL, error) {
	return RGBToHSL(c.R, c.G, c.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// RGB returns the 8-bit channels for c.
func (c HSL) RGB() (RGB, error) {
	return HSLToRGB(c.H, c.S, c.L)
}

func (c HSL) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.H, c.S, c.L)
}
