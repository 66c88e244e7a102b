package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/awnumar/memguard"

	"github.com/nexakey/nexakey/accountapi"
	"github.com/nexakey/nexakey/crypto"
	"github.com/nexakey/nexakey/internal/util"
	"github.com/nexakey/nexakey/securestore"
)

// Service is the subset of the account API a session uses. The session sends
// only auth hashes and ciphertext blobs through it.
type Service interface {
	Register(ctx context.Context, email, authHash string, biometricEnabled bool) (accountapi.AuthResult, error)
	Login(ctx context.Context, email, authHash string) (accountapi.AuthResult, error)
	VaultItems(ctx context.Context) ([]accountapi.VaultItem, error)
	CreateItem(ctx context.Context, itemType, encryptedData string) (accountapi.VaultItem, error)
	UpdateItem(ctx context.Context, itemID, encryptedData string) error
	DeleteItem(ctx context.Context, itemID string) error
}

// Session holds the symmetric key for an authenticated vault session. The key
// lives in a memguard Enclave and is destroyed on Logout; the session is the
// key's single exclusive owner, and every cipher operation threads it
// explicitly rather than through ambient state.
type Session struct {
	svc     Service
	store   securestore.Store
	key     *memguard.Enclave
	email   string
	profile accountapi.Profile
	closed  bool
}

// SessionOption configures Register and Login.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	kdfParams        crypto.Argon2idParams
	biometricEnabled bool
}

// WithKDFParams overrides the Argon2id parameters. The same parameters must
// be used at registration and at every later login for an account.
func WithKDFParams(params crypto.Argon2idParams) SessionOption {
	return func(o *sessionOptions) {
		o.kdfParams = params
	}
}

// WithBiometricEnabled records the user's biometric opt-in at registration.
func WithBiometricEnabled(enabled bool) SessionOption {
	return func(o *sessionOptions) {
		o.biometricEnabled = enabled
	}
}

func applySessionOptions(opts []SessionOption) sessionOptions {
	o := sessionOptions{kdfParams: crypto.DefaultArgon2idParams()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Register creates a new account: mints the account salt, derives the auth
// hash and symmetric key, registers with the account service and persists the
// salt and access token. The master secret is used transiently and never
// stored in any form.
func Register(ctx context.Context, svc Service, store securestore.Store, email, masterSecret string, opts ...SessionOption) (*Session, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	o := applySessionOptions(opts)

	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}

	authHash, err := crypto.ComputeAuthHash(masterSecret, salt, crypto.WithKDFParams(o.kdfParams))
	if err != nil {
		return nil, err
	}
	key, err := crypto.DeriveKey(masterSecret, salt, crypto.WithKDFParams(o.kdfParams))
	if err != nil {
		return nil, err
	}

	res, err := svc.Register(ctx, email, authHash, o.biometricEnabled)
	if err != nil {
		util.WipeBytes(key)
		return nil, fmt.Errorf("registering account: %w", err)
	}

	// Salt first: losing it after the server account exists would strand the
	// vault permanently.
	if err := store.Set(securestore.KeyUserSalt, []byte(salt.Encode())); err != nil {
		util.WipeBytes(key)
		return nil, fmt.Errorf("persisting account salt: %w", err)
	}
	if err := store.Set(securestore.KeyAccessToken, []byte(res.AccessToken)); err != nil {
		util.WipeBytes(key)
		return nil, fmt.Errorf("persisting access token: %w", err)
	}
	cacheProfile(store, res.User)

	return &Session{
		svc:     svc,
		store:   store,
		key:     memguard.NewEnclave(key),
		email:   email,
		profile: res.User,
	}, nil
}

// Login re-derives the auth hash and symmetric key from the persisted salt
// and authenticates against the account service. The same (masterSecret,
// salt) inputs reproduce the exact key minted at registration.
func Login(ctx context.Context, svc Service, store securestore.Store, email, masterSecret string, opts ...SessionOption) (*Session, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	o := applySessionOptions(opts)

	encoded, err := store.Get(securestore.KeyUserSalt)
	if err != nil {
		if errors.Is(err, securestore.ErrNotFound) {
			return nil, ErrSaltMissing
		}
		return nil, fmt.Errorf("loading account salt: %w", err)
	}
	salt, err := crypto.DecodeSalt(string(encoded))
	if err != nil {
		return nil, err
	}

	authHash, err := crypto.ComputeAuthHash(masterSecret, salt, crypto.WithKDFParams(o.kdfParams))
	if err != nil {
		return nil, err
	}

	res, err := svc.Login(ctx, email, authHash)
	if err != nil {
		if errors.Is(err, accountapi.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("logging in: %w", err)
	}

	key, err := crypto.DeriveKey(masterSecret, salt, crypto.WithKDFParams(o.kdfParams))
	if err != nil {
		return nil, err
	}

	if err := store.Set(securestore.KeyAccessToken, []byte(res.AccessToken)); err != nil {
		util.WipeBytes(key)
		return nil, fmt.Errorf("persisting access token: %w", err)
	}
	cacheProfile(store, res.User)

	return &Session{
		svc:     svc,
		store:   store,
		key:     memguard.NewEnclave(key),
		email:   email,
		profile: res.User,
	}, nil
}

// cacheProfile stores the profile for offline display. The cache is
// best-effort; authentication has already succeeded at this point.
func cacheProfile(store securestore.Store, profile accountapi.Profile) {
	if data, err := json.Marshal(profile); err == nil {
		_ = store.Set(securestore.KeyUserProfile, data)
	}
}

// Resume opens a session from an already-derived key, e.g. one returned by a
// biometric escrow unlock. The service must already hold a valid token. The
// key bytes are consumed: Resume wipes the caller's copy.
func Resume(svc Service, store securestore.Store, key []byte) (*Session, error) {
	if len(key) != crypto.KeySize {
		util.WipeBytes(key)
		return nil, fmt.Errorf("session key must be %d bytes, got %d", crypto.KeySize, len(key))
	}
	return &Session{
		svc:   svc,
		store: store,
		key:   memguard.NewEnclave(key),
	}, nil
}

// Email returns the account email, when known.
func (s *Session) Email() string {
	return s.email
}

// Profile returns the account profile returned at authentication time.
func (s *Session) Profile() accountapi.Profile {
	return s.profile
}

// Key returns an independent copy of the session's symmetric key, for escrow
// enrollment. The caller owns the copy and must wipe it after use.
func (s *Session) Key() ([]byte, error) {
	var out []byte
	err := s.withKey(func(key []byte) error {
		out = util.CopyBytes(key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddItem encrypts and stores a new vault item.
func (s *Session) AddItem(ctx context.Context, data ItemData) (DecryptedItem, error) {
	if err := validateItemData(data); err != nil {
		return DecryptedItem{}, err
	}

	var blob string
	err := s.withKey(func(key []byte) error {
		var err error
		blob, err = EncryptItemData(data, key)
		return err
	})
	if err != nil {
		return DecryptedItem{}, err
	}

	itm, err := s.svc.CreateItem(ctx, string(data.ItemType()), blob)
	if err != nil {
		return DecryptedItem{}, fmt.Errorf("storing item: %w", err)
	}

	return DecryptedItem{
		ID:        itm.ID,
		Type:      data.ItemType(),
		Data:      data,
		CreatedAt: itm.CreatedAt,
		UpdatedAt: itm.UpdatedAt,
	}, nil
}

// Items fetches and decrypts the whole vault. Items that fail to decrypt are
// isolated and reported in the second return value; remaining items are still
// returned. This core never deletes a failing item; that policy belongs to
// the caller.
func (s *Session) Items(ctx context.Context) ([]DecryptedItem, []SkippedItem, error) {
	records, err := s.svc.VaultItems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching vault items: %w", err)
	}

	var (
		items   []DecryptedItem
		skipped []SkippedItem
	)
	err = s.withKey(func(key []byte) error {
		for _, rec := range records {
			data, derr := DecryptItemData(rec.EncryptedData, key)
			if derr != nil {
				skipped = append(skipped, SkippedItem{ID: rec.ID, Err: derr})
				continue
			}
			items = append(items, DecryptedItem{
				ID:        rec.ID,
				Type:      data.ItemType(),
				Data:      data,
				CreatedAt: rec.CreatedAt,
				UpdatedAt: rec.UpdatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return items, skipped, nil
}

// UpdateItem re-encrypts an item's payload under a fresh nonce and replaces
// its ciphertext on the server.
func (s *Session) UpdateItem(ctx context.Context, itemID string, data ItemData) error {
	if err := validateItemData(data); err != nil {
		return err
	}

	var blob string
	err := s.withKey(func(key []byte) error {
		var err error
		blob, err = EncryptItemData(data, key)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.svc.UpdateItem(ctx, itemID, blob); err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item from the vault.
func (s *Session) DeleteItem(ctx context.Context, itemID string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.svc.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// Logout destroys the session's key material. The session cannot be reused
// afterward; the key is not recoverable from a stale reference. With
// wipeLocal set, the persisted access token, profile cache and biometric
// escrow record are also removed. The account salt is always kept: without
// it the vault can never be decrypted again.
func (s *Session) Logout(wipeLocal bool) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	s.key = nil
	s.profile = accountapi.Profile{}

	if err := deleteIgnoreMissing(s.store, securestore.KeyAccessToken); err != nil {
		return err
	}
	if !wipeLocal {
		return nil
	}
	for _, k := range []string{
		securestore.KeyUserProfile,
		securestore.KeyBiometricEscrow,
		securestore.KeyBiometricEnabled,
	} {
		if err := deleteIgnoreMissing(s.store, k); err != nil {
			return err
		}
	}
	return nil
}

func deleteIgnoreMissing(store securestore.Store, key string) error {
	if err := store.Delete(key); err != nil && !errors.Is(err, securestore.ErrNotFound) {
		return fmt.Errorf("clearing %s: %w", key, err)
	}
	return nil
}

func (s *Session) withKey(fn func(key []byte) error) error {
	if s.closed || s.key == nil {
		return ErrSessionClosed
	}
	buf, err := s.key.Open()
	if err != nil {
		return fmt.Errorf("opening session key: %w", err)
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}
