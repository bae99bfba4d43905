package datastore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palette-peek/api/models"
)

func TestUserDatabase(t *testing.T) {
	users, err := NewUserDatabase(NewMemoryStore())
	require.NoError(t, err)

	ada := models.User{UserID: "u1", Email: "ada@example.com", HashedPassword: "h"}
	_, err = users.Create(ada)
	require.NoError(t, err)

	_, err = users.Create(models.User{UserID: "u2", Email: "ada@example.com"})
	assert.ErrorIs(t, err, models.ErrDuplicateIdentity)

	got, err := users.GetUserByEmail(" ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, ada.UserID, got.UserID)
	assert.Equal(t, ada.Email, got.Email)

	got, err = users.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, "h", got.HashedPassword)

	_, err = users.Get("nobody")
	assert.True(t, IsNotFound(err))

	all, err := users.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPaletteDatabaseScopesByIdentity(t *testing.T) {
	palettes, err := NewPaletteDatabase(NewMemoryStore())
	require.NoError(t, err)

	red, _ := models.NewColor("#F00")
	first := models.NewPalette("", []models.Color{red}, time.Now())
	second := models.NewPalette("", []models.Color{red, red}, time.Now())

	require.NoError(t, palettes.Add("ada", first))
	require.NoError(t, palettes.Add("ada", second))
	require.NoError(t, palettes.Add("bob", first))

	adas, err := palettes.List("ada")
	require.NoError(t, err)
	require.Len(t, adas, 2)
	assert.Equal(t, first.ID, adas[0].ID)
	assert.Equal(t, second.ID, adas[1].ID)

	removed, err := palettes.Delete("ada", first.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = palettes.Delete("ada", "missing")
	require.NoError(t, err)
	assert.False(t, removed)

	adas, _ = palettes.List("ada")
	require.Len(t, adas, 1)
	assert.Equal(t, second.ID, adas[0].ID)

	bobs, _ := palettes.List("bob")
	require.Len(t, bobs, 1)
	assert.Equal(t, first.ID, bobs[0].ID)

	carols, err := palettes.List("carol")
	require.NoError(t, err)
	assert.Empty(t, carols)
}

func TestPaletteDatabaseRequiresIdentity(t *testing.T) {
	palettes, err := NewPaletteDatabase(NewMemoryStore())
	require.NoError(t, err)

	_, err = palettes.List("")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.ErrorIs(t, palettes.Add("", models.Palette{}), models.ErrUnauthenticated)
	_, err = palettes.Delete("", "x")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestDailyPaletteDatabase(t *testing.T) {
	daily, err := NewDailyPaletteDatabase(NewMemoryStore())
	require.NoError(t, err)
	today := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	daily.now = func() time.Time { return today }

	_, err = daily.GetToday()
	assert.True(t, IsNotFound(err))

	blue, _ := models.NewColor("#00F")
	created, err := daily.Create(models.DailyPalette{
		Date:    DateKey(today),
		Palette: models.NewPalette("", []models.Color{blue}, today),
	})
	require.NoError(t, err)

	// A second run on the same day keeps the first palette.
	again, err := daily.Create(models.DailyPalette{Date: DateKey(today), Palette: models.Palette{ID: "other"}})
	require.NoError(t, err)
	assert.Equal(t, created.Palette.ID, again.Palette.ID)

	got, err := daily.GetToday()
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", got.Date)
	assert.Equal(t, created.Palette.ID, got.Palette.ID)

	_, err = daily.Create(models.DailyPalette{Date: "2026-10-18", Palette: models.Palette{ID: "yesterday"}})
	require.NoError(t, err)

	all, err := daily.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2026-10-19", all[0].Date)
	assert.Equal(t, "2026-10-18", all[1].Date)
}
