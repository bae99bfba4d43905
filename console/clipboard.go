package console

import (
	"golang.design/x/clipboard"
)

// Clipboard receives text copied from a palette entry.
type Clipboard interface {
	WriteText(text string) error
}

type systemClipboard struct{}

// SystemClipboard initialises the OS clipboard. It fails on headless hosts,
// in which case copy falls back to printing the text.
func SystemClipboard() (Clipboard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return systemClipboard{}, nil
}

func (systemClipboard) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
