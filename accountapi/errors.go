package accountapi

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrInvalidCredentials is returned on a failed login. The service does
	// not reveal whether the email or the secret was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUnauthorized is returned when the access token is missing or expired.
	ErrUnauthorized = errors.New("invalid or expired access token")

	// ErrItemNotFound is returned when the referenced vault item does not exist.
	ErrItemNotFound = errors.New("vault item not found")
)

// APIError carries an unexpected HTTP failure from the account service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("account service error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("account service error (status %d): %s", e.StatusCode, e.Detail)
}
