package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexakey/nexakey/securestore"
)

func TestStore_GetSetDelete(t *testing.T) {
	s := New()

	_, err := s.Get(securestore.KeyUserSalt)
	assert.ErrorIs(t, err, securestore.ErrNotFound)

	require.NoError(t, s.Set(securestore.KeyUserSalt, []byte("salt bytes")))

	got, err := s.Get(securestore.KeyUserSalt)
	require.NoError(t, err)
	assert.Equal(t, []byte("salt bytes"), got)

	require.NoError(t, s.Delete(securestore.KeyUserSalt))
	_, err = s.Get(securestore.KeyUserSalt)
	assert.ErrorIs(t, err, securestore.ErrNotFound)

	assert.ErrorIs(t, s.Delete(securestore.KeyUserSalt), securestore.ErrNotFound)
}

func TestStore_CopiesValues(t *testing.T) {
	s := New()
	original := []byte("sensitive")
	require.NoError(t, s.Set("k", original))

	// Mutating the caller's slice must not affect the stored value.
	original[0] = 'X'

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("sensitive"), got)

	// Mutating the returned slice must not affect a later read.
	got[0] = 'Y'
	again, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("sensitive"), again)
}
