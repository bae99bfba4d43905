package datastore

import "sync"

// MemoryStore keeps values in process memory. Used for tests and DEV_MODE.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (ms *MemoryStore) Get(key string) ([]byte, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	value, ok := ms.values[key]
	if !ok {
		return nil, NoRowsError{true, ErrKeyNotFound}
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (ms *MemoryStore) Set(key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.values[key] = stored
	return nil
}

func (ms *MemoryStore) Delete(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.values, key)
	return nil
}
