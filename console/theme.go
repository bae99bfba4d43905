package console

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/palette-peek/api/models"
	"github.com/palette-peek/api/session"
)

// styles is the set of text colors for one theme.
type styles struct {
	heading *color.Color
	accent  *color.Color
	success *color.Color
	warn    *color.Color
	failure *color.Color
	muted   *color.Color
}

func stylesFor(theme session.Theme) styles {
	if theme == session.Dark {
		return styles{
			heading: color.New(color.FgHiMagenta, color.Bold),
			accent:  color.New(color.FgHiCyan),
			success: color.New(color.FgHiGreen),
			warn:    color.New(color.FgHiYellow),
			failure: color.New(color.FgHiRed),
			muted:   color.New(color.FgHiBlack),
		}
	}
	return styles{
		heading: color.New(color.FgMagenta, color.Bold),
		accent:  color.New(color.FgBlue),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		failure: color.New(color.FgRed),
		muted:   color.New(color.FgBlack),
	}
}

// swatch renders the hex code on a truecolor block of the color itself,
// with black or white text depending on lightness.
func swatch(c models.Color) string {
	block := color.BgRGB(c.RGB.R, c.RGB.G, c.RGB.B)
	if c.HSL.L > 55 {
		block.AddRGB(0, 0, 0)
	} else {
		block.AddRGB(255, 255, 255)
	}
	return block.Sprintf(" %s ", c.Hex)
}

func describe(c models.Color) string {
	return fmt.Sprintf("%s  %s  %s", swatch(c), c.RGB, c.HSL)
}
