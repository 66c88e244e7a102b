package bboltstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexakey/nexakey/securestore"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewFromFile(filepath.Join(t.TempDir(), "secure.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_GetSetDelete(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(securestore.KeyBiometricEscrow)
	assert.ErrorIs(t, err, securestore.ErrNotFound)

	require.NoError(t, s.Set(securestore.KeyBiometricEscrow, []byte{1, 2, 3}))

	got, err := s.Get(securestore.KeyBiometricEscrow)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	require.NoError(t, s.Set(securestore.KeyBiometricEscrow, []byte{4, 5}))
	got, err = s.Get(securestore.KeyBiometricEscrow)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5}, got, "set must overwrite")

	require.NoError(t, s.Delete(securestore.KeyBiometricEscrow))
	_, err = s.Get(securestore.KeyBiometricEscrow)
	assert.ErrorIs(t, err, securestore.ErrNotFound)

	assert.ErrorIs(t, s.Delete(securestore.KeyBiometricEscrow), securestore.ErrNotFound)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure.db")

	s, err := NewFromFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(securestore.KeyUserSalt, []byte("persisted salt")))
	require.NoError(t, s.Close())

	s2, err := NewFromFile(path, nil)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(securestore.KeyUserSalt)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted salt"), got)
}
