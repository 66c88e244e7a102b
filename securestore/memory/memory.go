// Package memory provides a thread-safe in-memory securestore.Store.
// Suitable for tests and ephemeral sessions; nothing survives the process.
package memory

import (
	"sync"

	"github.com/nexakey/nexakey/securestore"
)

// Store is a thread-safe in-memory implementation of securestore.Store.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ securestore.Store = (*Store)(nil)

// New creates an empty in-memory Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, securestore.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return securestore.ErrNotFound
	}
	delete(s.data, key)
	return nil
}
