package auth

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is matched by every AuthError, so callers can collapse all
// authentication failures into one outcome.
var ErrUnauthorized = errors.New("unauthorized")

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// Reason identifies which authentication check failed.
type Reason string

// Authentication failure reasons
const (
	ReasonInvalidCredentials Reason = "InvalidCredentials"
	ReasonInvalidToken       Reason = "InvalidToken"
	ReasonSessionRevoked     Reason = "SessionRevoked"
	ReasonUserNotFound       Reason = "UserNotFound"
	ReasonMissingToken       Reason = "MissingToken"
)

// AuthError is an authentication or authorization failure.
type AuthError struct {
	Reason Reason
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// Is matches ErrUnauthorized and any AuthError with the same reason.
func (e *AuthError) Is(target error) bool {
	if target == ErrUnauthorized {
		return true
	}
	var other *AuthError
	if errors.As(target, &other) {
		return other.Reason == e.Reason
	}
	return false
}

// Sentinel authentication errors
var (
	// ErrInvalidCredentials is returned by login for an unknown email or a
	// wrong password alike.
	ErrInvalidCredentials = &AuthError{Reason: ReasonInvalidCredentials}

	// ErrInvalidToken indicates a malformed token or a bad signature.
	ErrInvalidToken = &AuthError{Reason: ReasonInvalidToken}

	// ErrSessionRevoked indicates a validly signed token that is no longer in
	// the account's session list.
	ErrSessionRevoked = &AuthError{Reason: ReasonSessionRevoked}

	// ErrUserNotFound indicates the token's owner no longer exists.
	ErrUserNotFound = &AuthError{Reason: ReasonUserNotFound}

	// ErrMissingToken indicates no token was presented.
	ErrMissingToken = &AuthError{Reason: ReasonMissingToken}
)

// ReasonOf returns the reason of an AuthError in err's chain, or "" if none.
func ReasonOf(err error) Reason {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason
	}
	return ""
}
