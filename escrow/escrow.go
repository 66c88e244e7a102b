// Package escrow holds a vault key in the device secure store behind an
// authenticator challenge, so a user can reopen the vault without
// re-entering the master secret.
//
// The escrowed key is exactly the symmetric key handed to Enroll. Escrow
// adds no cryptographic layer of its own; its guarantee is procedural:
// the key is only released after the platform authenticator confirms the
// user's presence.
package escrow

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexakey/nexakey/internal/util"
	"github.com/nexakey/nexakey/securestore"
)

// ErrBiometricUnavailable means the device has no usable authenticator.
// Callers should fall back to master-secret login.
var ErrBiometricUnavailable = errors.New("escrow: biometric authentication unavailable")

// ChallengeResult is the outcome of a single authenticator prompt.
type ChallengeResult int

const (
	// ChallengeSuccess means the user passed the authenticator check.
	ChallengeSuccess ChallengeResult = iota
	// ChallengeFailure means the check ran and the user did not pass.
	ChallengeFailure
	// ChallengeCancelled means the user dismissed the prompt.
	ChallengeCancelled
)

// Authenticator abstracts the platform biometric or device-credential
// prompt. Implementations return ErrBiometricUnavailable when no
// authenticator is present, and a ChallengeResult otherwise.
type Authenticator interface {
	Challenge(ctx context.Context, prompt string) (ChallengeResult, error)
}

const (
	defaultEnrollPrompt = "Confirm your identity to enable biometric unlock"
	defaultUnlockPrompt = "Unlock your vault"
)

// Option configures an Escrow.
type Option func(*Escrow)

// WithEnrollPrompt overrides the message shown during Enroll.
func WithEnrollPrompt(prompt string) Option {
	return func(e *Escrow) { e.enrollPrompt = prompt }
}

// WithUnlockPrompt overrides the message shown during Unlock.
func WithUnlockPrompt(prompt string) Option {
	return func(e *Escrow) { e.unlockPrompt = prompt }
}

// Escrow mediates between an Authenticator and the secure store.
type Escrow struct {
	auth         Authenticator
	store        securestore.Store
	enrollPrompt string
	unlockPrompt string
}

// New builds an Escrow over the given authenticator and store.
func New(auth Authenticator, store securestore.Store, opts ...Option) *Escrow {
	e := &Escrow{
		auth:         auth,
		store:        store,
		enrollPrompt: defaultEnrollPrompt,
		unlockPrompt: defaultUnlockPrompt,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrolled reports whether a key is currently escrowed. Only the flag is
// consulted; the key itself stays untouched until Unlock.
func (e *Escrow) Enrolled() (bool, error) {
	flag, err := e.store.Get(securestore.KeyBiometricEnabled)
	if errors.Is(err, securestore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("escrow: read enrollment flag: %w", err)
	}
	return string(flag) == "true", nil
}

// Enroll stores key behind a fresh authenticator challenge. The challenge
// runs first: a failed or cancelled prompt leaves the store untouched.
// The key is written before the flag, and a flag write failure rolls the
// key back, so the store never advertises an enrollment it cannot honor.
func (e *Escrow) Enroll(ctx context.Context, key []byte) error {
	if len(key) == 0 {
		return errors.New("escrow: empty key")
	}

	result, err := e.auth.Challenge(ctx, e.enrollPrompt)
	if err != nil {
		return fmt.Errorf("escrow: enroll challenge: %w", err)
	}
	switch result {
	case ChallengeSuccess:
	case ChallengeCancelled:
		return errors.New("escrow: enrollment cancelled")
	default:
		return errors.New("escrow: enrollment challenge failed")
	}

	if err := e.store.Set(securestore.KeyBiometricEscrow, util.CopyBytes(key)); err != nil {
		return fmt.Errorf("escrow: store key: %w", err)
	}
	if err := e.store.Set(securestore.KeyBiometricEnabled, []byte("true")); err != nil {
		if delErr := e.store.Delete(securestore.KeyBiometricEscrow); delErr != nil && !errors.Is(delErr, securestore.ErrNotFound) {
			return fmt.Errorf("escrow: store flag: %w (rollback also failed: %v)", err, delErr)
		}
		return fmt.Errorf("escrow: store flag: %w", err)
	}
	return nil
}

// Unlock challenges the user and, on success, returns a copy of the
// escrowed key. A cancelled or failed challenge, and a store with no
// enrollment, all return (nil, nil): the caller falls back to
// master-secret login without treating the denial as an error.
func (e *Escrow) Unlock(ctx context.Context) ([]byte, error) {
	enrolled, err := e.Enrolled()
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, nil
	}

	result, err := e.auth.Challenge(ctx, e.unlockPrompt)
	if err != nil {
		return nil, fmt.Errorf("escrow: unlock challenge: %w", err)
	}
	if result != ChallengeSuccess {
		return nil, nil
	}

	key, err := e.store.Get(securestore.KeyBiometricEscrow)
	if errors.Is(err, securestore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("escrow: read key: %w", err)
	}
	return key, nil
}

// Revoke erases the escrowed key and the enrollment flag. Revoking an
// empty escrow is a no-op.
func (e *Escrow) Revoke() error {
	if err := e.store.Delete(securestore.KeyBiometricEscrow); err != nil && !errors.Is(err, securestore.ErrNotFound) {
		return fmt.Errorf("escrow: delete key: %w", err)
	}
	if err := e.store.Delete(securestore.KeyBiometricEnabled); err != nil && !errors.Is(err, securestore.ErrNotFound) {
		return fmt.Errorf("escrow: delete flag: %w", err)
	}
	return nil
}
