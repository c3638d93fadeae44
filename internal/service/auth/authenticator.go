package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/platform/logger"
	"github.com/phrazzld/taskr/internal/store"
)

// Principal is the account bound to a request after authentication,
// together with the token that authenticated it.
type Principal struct {
	User  *domain.User
	Token string
}

// UserID returns the principal's account id, the scoping key for every
// downstream operation.
func (p *Principal) UserID() uuid.UUID {
	return p.User.ID
}

// UserFinder loads accounts by id.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Authenticator turns a presented token into a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

// SessionAuthenticator checks a token's signature, loads its owner and
// confirms the token is still one of the owner's live sessions. It never
// modifies the session list.
type SessionAuthenticator struct {
	tokens TokenService
	users  UserFinder
	logger *slog.Logger
}

var _ Authenticator = (*SessionAuthenticator)(nil)

// NewSessionAuthenticator creates a SessionAuthenticator.
func NewSessionAuthenticator(tokens TokenService, users UserFinder, logger *slog.Logger) *SessionAuthenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionAuthenticator{
		tokens: tokens,
		users:  users,
		logger: logger.With(slog.String("component", "session_authenticator")),
	}
}

// Authenticate implements Authenticator. It returns an AuthError for every
// rejection; a persistence failure while loading the owner is returned as is.
func (a *SessionAuthenticator) Authenticate(ctx context.Context, token string) (*Principal, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	if token == "" {
		return nil, ErrMissingToken
	}

	ownerID, err := a.tokens.Verify(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := a.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("token owner not found", slog.String("user_id", ownerID.String()))
			return nil, ErrUserNotFound
		}
		log.Error("failed to load token owner",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, fmt.Errorf("failed to load token owner: %w", err)
	}

	if !user.HasSession(token) {
		log.Debug("token not in session list", slog.String("user_id", ownerID.String()))
		return nil, ErrSessionRevoked
	}

	return &Principal{User: user, Token: token}, nil
}
