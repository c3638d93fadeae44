// Package middleware provides the HTTP middleware for request tracing,
// session authentication and request metrics.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskr/internal/api/shared"
	"github.com/phrazzld/taskr/internal/metrics"
	"github.com/phrazzld/taskr/internal/platform/logger"
	"github.com/phrazzld/taskr/internal/redact"
	"github.com/phrazzld/taskr/internal/service/auth"
)

// UnauthorizedMessage is the single response body for every rejected
// credential.
const UnauthorizedMessage = "Please authenticate"

// AuthMiddleware authenticates requests with session bearer tokens.
type AuthMiddleware struct {
	authenticator auth.Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(authenticator auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate runs the session authenticator once per request and stores
// the resulting principal in the request context. Every rejection produces
// the same 401 response; only a storage failure yields a 500.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		principal, err := m.authenticator.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				reason := auth.ReasonOf(err)
				metrics.RecordAuthAttempt(string(reason))
				log.Debug("request rejected", slog.String("reason", string(reason)))
				shared.RespondWithError(w, r, http.StatusUnauthorized, UnauthorizedMessage)
				return
			}

			log.Error("failed to authenticate request", slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		metrics.RecordAuthAttempt(metrics.OutcomeSuccess)
		log = log.With(slog.String("user_id", principal.UserID().String()))
		ctx := logger.WithLogger(shared.WithPrincipal(r.Context(), principal), log)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>". It
// returns "" when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetPrincipal returns the principal stored by Authenticate.
func GetPrincipal(r *http.Request) (*auth.Principal, bool) {
	return shared.PrincipalFrom(r.Context())
}
