package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthErrorMatching(t *testing.T) {
	all := []error{ErrInvalidCredentials, ErrInvalidToken, ErrSessionRevoked, ErrUserNotFound, ErrMissingToken}

	for _, err := range all {
		t.Run(err.Error(), func(t *testing.T) {
			assert.ErrorIs(t, err, ErrUnauthorized)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), ErrUnauthorized)
			assert.ErrorIs(t, err, &AuthError{Reason: ReasonOf(err)})

			for _, other := range all {
				if other != err {
					assert.False(t, errors.Is(err, other), "%v must not match %v", err, other)
				}
			}
		})
	}
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, ReasonSessionRevoked, ReasonOf(fmt.Errorf("x: %w", ErrSessionRevoked)))
	assert.Equal(t, Reason(""), ReasonOf(errors.New("plain")))
	assert.Equal(t, Reason(""), ReasonOf(nil))
}
