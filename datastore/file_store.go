package datastore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists every key in one JSON document on disk, the way the
// browser keeps localStorage for an origin. Writes go to a temp file that is
// renamed over the original.
//
// The document is read once at open and rewritten whole on every change, so
// a file must only be used by one process at a time.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// NewFileStore loads path, creating an empty store if the file does not exist.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		values: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return fs, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	if len(data) == 0 {
		return fs, nil
	}
	if err := json.Unmarshal(data, &fs.values); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}
	return fs, nil
}

func (fs *FileStore) Get(key string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	value, ok := fs.values[key]
	if !ok {
		return nil, NoRowsError{true, ErrKeyNotFound}
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (fs *FileStore) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	previous, existed := fs.values[key]
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	fs.values[key] = stored

	if err := fs.flush(); err != nil {
		if existed {
			fs.values[key] = previous
		} else {
			delete(fs.values, key)
		}
		return err
	}
	return nil
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	previous, existed := fs.values[key]
	if !existed {
		return nil
	}
	delete(fs.values, key)

	if err := fs.flush(); err != nil {
		fs.values[key] = previous
		return err
	}
	return nil
}

// flush must be called with fs.mu held.
func (fs *FileStore) flush() error {
	data, err := json.MarshalIndent(fs.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}
