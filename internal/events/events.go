package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names an account lifecycle event.
type Type string

// Account lifecycle event types
const (
	// AccountRegistered is raised after a new account is stored.
	AccountRegistered Type = "account.registered"

	// AccountDeleted is raised after an account and its tasks are removed.
	AccountDeleted Type = "account.deleted"
)

// AccountEvent describes a change to an account. It carries only what
// handlers need to address the account holder.
type AccountEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      Type      `json:"type"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccountEvent creates an AccountEvent with a fresh id.
func NewAccountEvent(eventType Type, userID uuid.UUID, email, name string) *AccountEvent {
	return &AccountEvent{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler processes account events.
type EventHandler interface {
	// HandleEvent processes the given event. Handlers that do slow work
	// should hand it off rather than block the emitter.
	HandleEvent(ctx context.Context, event *AccountEvent) error
}

// EventEmitter publishes account events to registered handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *AccountEvent) error
}
