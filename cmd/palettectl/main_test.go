package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataFilePath(t *testing.T) {
	t.Setenv("DATA_FILE", "palette-peek.json")
	t.Setenv("PALETTECTL_DATA_FILE", "")
	assert.Equal(t, defaultDataFile, dataFilePath())
	assert.NotEqual(t, "palette-peek.json", dataFilePath())

	t.Setenv("PALETTECTL_DATA_FILE", "/tmp/mine.json")
	assert.Equal(t, "/tmp/mine.json", dataFilePath())
}
