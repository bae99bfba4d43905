package datastore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
)

// Storage keys. Palette collections are scoped per identity via PalettesKey.
const (
	UsersKey        = "palette_peek_users"
	CurrentUserKey  = "palette_peek_current_user"
	ThemeKey        = "palette_peek_theme"
	DailyPaletteKey = "palette_peek_daily"
	palettesPrefix  = "palette_peek_palettes_"
)

// PalettesKey returns the key holding the saved palettes of identity.
func PalettesKey(identity string) string {
	return palettesPrefix + identity
}

// KeyValueStore is the durable storage collaborator. Set replaces the whole
// value or fails; there is no partial write.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

type NoRowsError struct {
	NoRows bool
	Err    error
}

func (nr NoRowsError) Error() string {
	return fmt.Sprintf("%v: no rows returned for scan: %v", nr.NoRows, nr.Err)
}

func (nr NoRowsError) Unwrap() error {
	return nr.Err
}

// ErrKeyNotFound is wrapped by the NoRowsError stores return for missing keys.
var ErrKeyNotFound = errors.New("key not found")

// IsNotFound reports whether err means the key is absent.
func IsNotFound(err error) bool {
	var noRows NoRowsError
	return errors.As(err, &noRows) && noRows.NoRows
}

// GetJSON decodes the value at key into dst. It returns false and leaves dst
// untouched when the key is absent or the stored value is corrupt, so callers
// pre-populate dst with their default.
func GetJSON(store KeyValueStore, key string, dst any) bool {
	raw, err := store.Get(key)
	if err != nil {
		if !IsNotFound(err) {
			log.Printf("Error reading %s from storage: %v", key, err)
		}
		return false
	}

	// Decode into a fresh value so a payload of the wrong shape cannot
	// half-populate dst.
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		log.Printf("GetJSON for %s needs a non-nil pointer, got %T", key, dst)
		return false
	}
	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		log.Printf("Ignoring corrupt value stored under %s: %v", key, err)
		return false
	}
	target.Elem().Set(fresh.Elem())
	return true
}

// SetJSON encodes value and stores it under key.
func SetJSON(store KeyValueStore, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding %s: %v", key, err)
	}
	return store.Set(key, raw)
}
