// Package securestore defines the local secure key/value boundary used for
// the account salt, session token and biometric escrow record. The core
// treats any implementation as confidential-at-rest; it does not implement
// that guarantee itself beyond what each backend's platform provides.
package securestore

import "errors"

// ErrNotFound is returned when the requested key has no stored value.
var ErrNotFound = errors.New("secure store: key not found")

// Well-known store keys.
const (
	KeyUserSalt         = "user_salt"
	KeyAccessToken      = "access_token"
	KeyUserProfile      = "user_profile"
	KeyBiometricEscrow  = "biometric_recovery_key"
	KeyBiometricEnabled = "biometric_enabled"
)

// Store is an opaque get/set/delete byte store.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
