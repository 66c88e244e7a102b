//go:build !darwin

package keychain

import "errors"

// ErrUnsupported signals that the Keychain backend is unavailable on this
// platform. Callers fall back to another securestore backend.
var ErrUnsupported = errors.New("keychain secure store is only available on darwin")

// Store is unavailable on non-darwin platforms.
type Store struct{}

// New always fails on non-darwin platforms.
func New(service string) (*Store, error) {
	return nil, ErrUnsupported
}

func (s *Store) Get(key string) ([]byte, error)  { return nil, ErrUnsupported }
func (s *Store) Set(key string, value []byte) error { return ErrUnsupported }
func (s *Store) Delete(key string) error          { return ErrUnsupported }
