package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/service"
	"github.com/phrazzld/taskr/internal/service/auth"
	"github.com/phrazzld/taskr/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("email", "is invalid", domain.ErrInvalidEmail), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("update: %w", domain.NewValidationError("age", "cannot be negative", nil)), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusBadRequest},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"revoked session", auth.ErrSessionRevoked, http.StatusUnauthorized},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"storage", store.NewStoreError("task", "find", "database error", errors.New("boom")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, msgUnexpected},
		{"field validation", domain.NewValidationError("email", "is invalid", domain.ErrInvalidEmail), "Invalid email: is invalid"},
		{"bad credentials", auth.ErrInvalidCredentials, msgLoginFailed},
		{"auth", auth.ErrUserNotFound, "Please authenticate"},
		{"not found", service.ErrNotFound, msgNotFound},
		{"internal detail hidden", errors.New("pq: relation users does not exist"), msgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	err := validator.New().Struct(CreateTaskRequest{})
	assert.Equal(t, "Invalid description: required field", SanitizeValidationError(err))
	assert.Equal(t, http.StatusBadRequest, MapErrorToStatusCode(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
