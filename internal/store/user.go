package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/domain"
)

// UserFilter selects a single user document.
type UserFilter struct {
	Email string // Normalized email; matched exactly
}

// UserStore defines the interface for the users collection.
type UserStore interface {
	// Insert saves a new user. The user's HashedPassword must already be set.
	// Returns ErrEmailExists if the email is already taken.
	Insert(ctx context.Context, user *domain.User) error

	// FindByID retrieves a user by ID, including the session list.
	// Returns ErrUserNotFound if the user does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// FindOne retrieves the user matching filter.
	// Returns ErrUserNotFound if no user matches.
	FindOne(ctx context.Context, filter UserFilter) (*domain.User, error)

	// UpdateByID replaces the profile and credential fields of the user with
	// the same ID. The session list is not written; use the session
	// operations below.
	// Returns ErrUserNotFound or ErrEmailExists.
	UpdateByID(ctx context.Context, user *domain.User) error

	// PushSession atomically appends token to the user's session list.
	PushSession(ctx context.Context, id uuid.UUID, token string) error

	// PullSession atomically removes token from the user's session list.
	// Removing an absent token is not an error.
	PullSession(ctx context.Context, id uuid.UUID, token string) error

	// ClearSessions atomically empties the user's session list.
	ClearSessions(ctx context.Context, id uuid.UUID) error

	// DeleteByID removes the user document.
	// Returns ErrUserNotFound if the user does not exist.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
