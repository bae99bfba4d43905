package datastore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeBackends(t *testing.T) map[string]KeyValueStore {
	t.Helper()
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	return map[string]KeyValueStore{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	}
}

func TestStoreGetSetDelete(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("missing")
			assert.True(t, IsNotFound(err))
			assert.True(t, errors.Is(err, ErrKeyNotFound))

			require.NoError(t, store.Set("k", []byte(`{"a":1}`)))
			got, err := store.Get("k")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":1}`, string(got))

			require.NoError(t, store.Set("k", []byte(`[2]`)))
			got, err = store.Get("k")
			require.NoError(t, err)
			assert.JSONEq(t, `[2]`, string(got))

			require.NoError(t, store.Delete("k"))
			_, err = store.Get("k")
			assert.True(t, IsNotFound(err))

			assert.NoError(t, store.Delete("never-set"))
		})
	}
}

func TestGetJSONDefaults(t *testing.T) {
	store := NewMemoryStore()

	value := []string{"default"}
	assert.False(t, GetJSON(store, "absent", &value))
	assert.Equal(t, []string{"default"}, value)

	require.NoError(t, store.Set("corrupt", []byte(`{not json`)))
	assert.False(t, GetJSON(store, "corrupt", &value))
	assert.Equal(t, []string{"default"}, value)

	require.NoError(t, store.Set("wrong-shape", []byte(`{"a":1}`)))
	assert.False(t, GetJSON(store, "wrong-shape", &value))
	assert.Equal(t, []string{"default"}, value)

	require.NoError(t, SetJSON(store, "ok", []string{"x", "y"}))
	assert.True(t, GetJSON(store, "ok", &value))
	assert.Equal(t, []string{"x", "y"}, value)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, SetJSON(first, CurrentUserKey, "ada@example.com"))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	var identity string
	assert.True(t, GetJSON(second, CurrentUserKey, &identity))
	assert.Equal(t, "ada@example.com", identity)
}

func TestFileStoreRejectsInvalidJSON(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	assert.Error(t, store.Set("k", []byte("nope")))
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestPalettesKeyIsScoped(t *testing.T) {
	assert.Equal(t, "palette_peek_palettes_ada@example.com", PalettesKey("ada@example.com"))
	assert.NotEqual(t, PalettesKey("a"), PalettesKey("b"))
}

func TestPostgresStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT value").
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[1,2]`)))
	got, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	mock.ExpectQuery("SELECT value").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	_, err = store.Get("missing")
	assert.True(t, IsNotFound(err))

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("k", `[3]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Set("k", []byte(`[3]`)))

	mock.ExpectExec("DELETE FROM kv_store").
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Delete("k"))

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("k", `[4]`).
		WillReturnError(errors.New("connection reset"))
	assert.Error(t, store.Set("k", []byte(`[4]`)))

	assert.NoError(t, mock.ExpectationsWereMet())
}
