package crypto

import (
	"fmt"

	"github.com/nexakey/nexakey/internal/util"
)

// SaltSize is the fixed length of an account salt in bytes.
const SaltSize = 16

// Salt is the per-account random value mixed into key derivation. It is
// minted once at registration, persisted for the lifetime of the account and
// never regenerated: a replaced salt makes the vault unrecoverable.
type Salt []byte

// NewSalt mints a fresh random salt.
func NewSalt() (Salt, error) {
	b, err := util.RandomBytes(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return Salt(b), nil
}

// ParseSalt validates raw bytes as a salt.
func ParseSalt(b []byte) (Salt, error) {
	if len(b) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrDerivation, SaltSize, len(b))
	}
	return Salt(util.CopyBytes(b)), nil
}

// Encode returns the salt in its persisted base64 form.
func (s Salt) Encode() string {
	return util.Base64Encode(s)
}

// DecodeSalt parses a salt from its persisted base64 form.
func DecodeSalt(encoded string) (Salt, error) {
	b, err := util.Base64Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed salt encoding", ErrDerivation)
	}
	return ParseSalt(b)
}
