package crypto

import "errors"

var (
	// ErrDerivation indicates malformed derivation input (empty master secret
	// or a salt of the wrong length). It is fatal to the registration or
	// login flow in progress; inputs are never silently substituted.
	ErrDerivation = errors.New("key derivation failed")

	// ErrDecryptionFailed indicates a wrong key or a corrupted blob. The two
	// causes are deliberately indistinguishable.
	ErrDecryptionFailed = errors.New("decryption failed")
)
