package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskr/internal/api/middleware"
	"github.com/phrazzld/taskr/internal/api/shared"
	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/service"
	"github.com/phrazzld/taskr/internal/service/auth"
	"github.com/phrazzld/taskr/internal/store"
)

// Client-facing messages
const (
	msgLoginFailed   = "Unable to login"
	msgNotFound      = "Not found"
	msgInvalidBody   = "Invalid request format"
	msgInvalidEntity = "Invalid entity data"
	msgUnexpected    = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.As(err, &verrs),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	// Bad credentials at login are a client error, not an auth failure
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	var verr *domain.ValidationError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verr):
		if verr.Field == "" {
			return "Invalid request: " + verr.Reason
		}
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Reason)
	case errors.As(err, &verrs):
		return SanitizeValidationError(err)
	case errors.Is(err, shared.ErrEmptyBody):
		return msgInvalidBody
	case errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidEntity
	case errors.Is(err, auth.ErrInvalidCredentials):
		return msgLoginFailed
	case errors.Is(err, auth.ErrUnauthorized):
		return middleware.UnauthorizedMessage
	case errors.Is(err, service.ErrNotFound):
		return msgNotFound
	default:
		return msgUnexpected
	}
}

// HandleAPIError writes the response for err. 5xx details are logged in
// redacted form and never sent to the client.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}

// SanitizeValidationError turns validator output into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "too small"
	default:
		return "validation failed"
	}
}
