package vault

import "errors"

var (
	// ErrInvalidCredentials is the generic login/registration failure. It
	// deliberately does not reveal whether the email or the master secret
	// was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionClosed indicates the session has been logged out and its key
	// material destroyed.
	ErrSessionClosed = errors.New("session closed")

	// ErrSaltMissing indicates no account salt is persisted locally. Logging
	// in requires the salt minted at registration; it is never regenerated.
	ErrSaltMissing = errors.New("account salt not found in local storage")

	// ErrMalformedItem indicates a decrypted payload that does not parse as
	// any known item type.
	ErrMalformedItem = errors.New("malformed item payload")
)
