package main

import (
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/palette-peek/api/console"
	"github.com/palette-peek/api/datastore"
)

func main() {
	_ = godotenv.Load()

	dataFile := dataFilePath()

	// Keep session and storage chatter out of the interactive output.
	if os.Getenv("PALETTECTL_VERBOSE") == "" {
		log.SetOutput(io.Discard)
	}

	store, err := datastore.NewFileStore(dataFile)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to open %s: %v", dataFile, err)
	}

	c, err := console.New(os.Stdout, store)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to start console: %v", err)
	}

	if clip, err := console.SystemClipboard(); err == nil {
		c.Clipboard = clip
	}

	if err := c.Run(os.Stdin); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Read error: %v", err)
	}
}

// dataFilePath is kept apart from the server's DATA_FILE since a FileStore
// has a single writer.
func dataFilePath() string {
	if path := os.Getenv("PALETTECTL_DATA_FILE"); path != "" {
		return path
	}
	return defaultDataFile
}

const defaultDataFile = "palettectl.json"
