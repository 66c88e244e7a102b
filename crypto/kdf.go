// Package crypto is the cryptographic core of the NexaKey client: master-key
// derivation, server auth-hash generation and the vault item cipher. All
// functions are deterministic over their inputs and hold no state; callers
// own the lifetime of every secret passed in or returned.
package crypto

import (
	"fmt"

	"github.com/nexakey/nexakey/internal/util"
)

// KeySize is the length of a derived symmetric key in bytes.
const KeySize = util.AESKeySize

// Argon2idParams configures the key-stretching step.
type Argon2idParams = util.Argon2idParams

// Named KDF profiles for different deployment scenarios.
const (
	KDFProfileInteractive = util.KDFProfileInteractive // sub-second, dev/testing
	KDFProfileModerate    = util.KDFProfileModerate    // account default
	KDFProfileSensitive   = util.KDFProfileSensitive   // high-value secrets
)

// Domain-separation tags. The vault key and the server-visible auth hash are
// expanded from the same stretched secret under distinct info tags, so
// neither can be computed from the other.
var (
	vaultKeyInfo = []byte("nexakey:vault-key:v1")
	authHashInfo = []byte("nexakey:auth-hash:v1")
)

// DefaultArgon2idParams returns the Argon2id parameters fixed at account
// creation (moderate profile).
func DefaultArgon2idParams() Argon2idParams {
	return util.DefaultArgon2idParams()
}

// Argon2idProfile returns the Argon2idParams for a named profile.
func Argon2idProfile(name string) (Argon2idParams, error) {
	return util.Argon2idProfile(name)
}

// DeriveOption customizes a derivation call.
type DeriveOption func(*deriveOptions)

type deriveOptions struct {
	params Argon2idParams
}

// WithKDFParams overrides the Argon2id parameters. The same parameters must
// be used for every derivation over an account's lifetime.
func WithKDFParams(params Argon2idParams) DeriveOption {
	return func(o *deriveOptions) {
		o.params = params
	}
}

// DeriveKey derives the 256-bit vault symmetric key from the master secret
// and the account salt. Identical inputs always yield identical keys; this
// is the core correctness contract of the whole system. The caller owns the
// returned bytes and should wipe them once no longer needed.
func DeriveKey(masterSecret string, salt Salt, opts ...DeriveOption) ([]byte, error) {
	return derive(masterSecret, salt, vaultKeyInfo, opts...)
}

// ComputeAuthHash derives the one-way, salted hash of the master secret sent
// to the account service for verification. It shares the Argon2id stretch
// with DeriveKey but expands under a distinct tag, so the server-visible
// value reveals nothing about the vault key.
func ComputeAuthHash(masterSecret string, salt Salt, opts ...DeriveOption) (string, error) {
	h, err := derive(masterSecret, salt, authHashInfo, opts...)
	if err != nil {
		return "", err
	}
	defer util.WipeBytes(h)
	return util.Base64Encode(h), nil
}

func derive(masterSecret string, salt Salt, info []byte, opts ...DeriveOption) ([]byte, error) {
	if masterSecret == "" {
		return nil, fmt.Errorf("%w: master secret must not be empty", ErrDerivation)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrDerivation, SaltSize, len(salt))
	}

	o := deriveOptions{params: DefaultArgon2idParams()}
	for _, opt := range opts {
		opt(&o)
	}

	stretched, err := util.DeriveArgon2idKey(util.Normalize(masterSecret), salt, o.params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivation, err)
	}
	defer util.WipeBytes(stretched)

	out, err := util.HKDF(stretched, salt, info)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivation, err)
	}
	return out, nil
}
