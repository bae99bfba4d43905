// Package session tracks the active identity and user preferences. Both are
// explicit objects constructed from durable storage at start-up and passed to
// the components that need them.
package session

import (
	"log"
	"sync"

	"github.com/palette-peek/api/datastore"
)

// Listener is called with the new identity ("" after logout).
type Listener = func(identity string)

type Session struct {
	mu        sync.Mutex
	store     datastore.KeyValueStore
	identity  string
	listeners []Listener
}

// Load restores the identity persisted under datastore.CurrentUserKey.
func Load(store datastore.KeyValueStore) *Session {
	s := &Session{store: store}
	datastore.GetJSON(store, datastore.CurrentUserKey, &s.identity)
	return s
}

// Identity returns the active identity, if any.
func (s *Session) Identity() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.identity != ""
}

// Subscribe registers fn to be told about every login and logout.
func (s *Session) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Login makes identity active and persists it.
func (s *Session) Login(identity string) error {
	if err := datastore.SetJSON(s.store, datastore.CurrentUserKey, identity); err != nil {
		return err
	}
	s.change(identity)
	return nil
}

// Logout clears the active identity.
func (s *Session) Logout() error {
	if err := s.store.Delete(datastore.CurrentUserKey); err != nil {
		return err
	}
	s.change("")
	return nil
}

func (s *Session) change(identity string) {
	s.mu.Lock()
	s.identity = identity
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if identity == "" {
		log.Println("Session ended")
	} else {
		log.Printf("Session started for %s", identity)
	}
	for _, fn := range listeners {
		fn(identity)
	}
}
