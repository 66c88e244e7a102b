package escrow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexakey/nexakey/escrow"
	"github.com/nexakey/nexakey/securestore"
	"github.com/nexakey/nexakey/securestore/memory"
)

type fakeAuthenticator struct {
	result  escrow.ChallengeResult
	err     error
	prompts []string
}

func (f *fakeAuthenticator) Challenge(_ context.Context, prompt string) (escrow.ChallengeResult, error) {
	f.prompts = append(f.prompts, prompt)
	return f.result, f.err
}

func TestEscrow_EnrollUnlockRoundTrip(t *testing.T) {
	auth := &fakeAuthenticator{result: escrow.ChallengeSuccess}
	store := memory.New()
	e := escrow.New(auth, store)

	key := []byte("0123456789abcdef0123456789abcdef")
	require.NoError(t, e.Enroll(t.Context(), key))

	enrolled, err := e.Enrolled()
	require.NoError(t, err)
	assert.True(t, enrolled)

	got, err := e.Unlock(t.Context())
	require.NoError(t, err)
	assert.Equal(t, key, got, "unlock must return the exact enrolled key")
}

func TestEscrow_EnrollDeniedLeavesStoreUntouched(t *testing.T) {
	for _, result := range []escrow.ChallengeResult{escrow.ChallengeFailure, escrow.ChallengeCancelled} {
		auth := &fakeAuthenticator{result: result}
		store := memory.New()
		e := escrow.New(auth, store)

		err := e.Enroll(t.Context(), []byte("key"))
		assert.Error(t, err)

		_, err = store.Get(securestore.KeyBiometricEscrow)
		assert.ErrorIs(t, err, securestore.ErrNotFound)
		_, err = store.Get(securestore.KeyBiometricEnabled)
		assert.ErrorIs(t, err, securestore.ErrNotFound)
	}
}

func TestEscrow_EnrollUnavailable(t *testing.T) {
	auth := &fakeAuthenticator{err: escrow.ErrBiometricUnavailable}
	e := escrow.New(auth, memory.New())

	err := e.Enroll(t.Context(), []byte("key"))
	assert.ErrorIs(t, err, escrow.ErrBiometricUnavailable)
}

func TestEscrow_EnrollRejectsEmptyKey(t *testing.T) {
	auth := &fakeAuthenticator{result: escrow.ChallengeSuccess}
	e := escrow.New(auth, memory.New())

	assert.Error(t, e.Enroll(t.Context(), nil))
	assert.Empty(t, auth.prompts, "no prompt before input validation")
}

func TestEscrow_UnlockDenialIsNotAnError(t *testing.T) {
	store := memory.New()
	enrollAuth := &fakeAuthenticator{result: escrow.ChallengeSuccess}
	require.NoError(t, escrow.New(enrollAuth, store).Enroll(t.Context(), []byte("key")))

	for _, result := range []escrow.ChallengeResult{escrow.ChallengeFailure, escrow.ChallengeCancelled} {
		auth := &fakeAuthenticator{result: result}
		key, err := escrow.New(auth, store).Unlock(t.Context())
		assert.NoError(t, err)
		assert.Nil(t, key)
	}
}

func TestEscrow_UnlockNotEnrolled(t *testing.T) {
	auth := &fakeAuthenticator{result: escrow.ChallengeSuccess}
	e := escrow.New(auth, memory.New())

	key, err := e.Unlock(t.Context())
	assert.NoError(t, err)
	assert.Nil(t, key)
	assert.Empty(t, auth.prompts, "no prompt when nothing is enrolled")
}

func TestEscrow_Revoke(t *testing.T) {
	auth := &fakeAuthenticator{result: escrow.ChallengeSuccess}
	store := memory.New()
	e := escrow.New(auth, store)

	require.NoError(t, e.Enroll(t.Context(), []byte("key")))
	require.NoError(t, e.Revoke())

	enrolled, err := e.Enrolled()
	require.NoError(t, err)
	assert.False(t, enrolled)

	key, err := e.Unlock(t.Context())
	assert.NoError(t, err)
	assert.Nil(t, key)

	require.NoError(t, e.Revoke(), "revoking an empty escrow is a no-op")
}

func TestEscrow_PromptOptions(t *testing.T) {
	auth := &fakeAuthenticator{result: escrow.ChallengeSuccess}
	store := memory.New()
	e := escrow.New(auth, store,
		escrow.WithEnrollPrompt("enroll here"),
		escrow.WithUnlockPrompt("unlock here"),
	)

	require.NoError(t, e.Enroll(t.Context(), []byte("key")))
	_, err := e.Unlock(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{"enroll here", "unlock here"}, auth.prompts)
}

func TestEscrow_EnrollFlagFailureRollsBackKey(t *testing.T) {
	auth := &fakeAuthenticator{result: escrow.ChallengeSuccess}
	store := &failFlagStore{Store: memory.New()}
	e := escrow.New(auth, store)

	err := e.Enroll(t.Context(), []byte("key"))
	assert.Error(t, err)

	_, err = store.Get(securestore.KeyBiometricEscrow)
	assert.ErrorIs(t, err, securestore.ErrNotFound, "key must not outlive a failed flag write")
}

type failFlagStore struct {
	securestore.Store
}

func (s *failFlagStore) Set(key string, value []byte) error {
	if key == securestore.KeyBiometricEnabled {
		return errors.New("disk full")
	}
	return s.Store.Set(key, value)
}
