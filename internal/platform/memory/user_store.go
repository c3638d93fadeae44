package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/store"
)

// UserStore implements store.UserStore on a DB.
type UserStore struct {
	db *DB
}

var _ store.UserStore = (*UserStore)(nil)

// emailTakenLocked reports whether another user already owns email.
// The caller must hold the lock.
func (s *UserStore) emailTakenLocked(email string, except uuid.UUID) bool {
	for id, u := range s.db.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

// Insert implements store.UserStore.Insert.
func (s *UserStore) Insert(ctx context.Context, user *domain.User) error {
	if user.HashedPassword == "" {
		return domain.NewValidationError("password", "must be hashed before saving", domain.ErrInvalidPassword)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[user.ID]; ok {
		return store.ErrDuplicate
	}
	if s.emailTakenLocked(user.Email, user.ID) {
		return store.ErrEmailExists
	}

	stored := user.Clone()
	stored.Password = ""
	s.db.users[user.ID] = stored
	return nil
}

// FindByID implements store.UserStore.FindByID.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u.Clone(), nil
}

// FindOne implements store.UserStore.FindOne.
func (s *UserStore) FindOne(ctx context.Context, filter store.UserFilter) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if u.Email == filter.Email {
			return u.Clone(), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// UpdateByID implements store.UserStore.UpdateByID.
func (s *UserStore) UpdateByID(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if s.emailTakenLocked(user.Email, user.ID) {
		return store.ErrEmailExists
	}

	updated := user.Clone()
	updated.Password = ""
	updated.Sessions = existing.Sessions
	updated.CreatedAt = existing.CreatedAt
	s.db.users[user.ID] = updated
	return nil
}

// PushSession implements store.UserStore.PushSession.
func (s *UserStore) PushSession(ctx context.Context, id uuid.UUID, token string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.AddSession(token)
	return nil
}

// PullSession implements store.UserStore.PullSession.
func (s *UserStore) PullSession(ctx context.Context, id uuid.UUID, token string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.RemoveSession(token)
	return nil
}

// ClearSessions implements store.UserStore.ClearSessions.
func (s *UserStore) ClearSessions(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.ClearSessions()
	return nil
}

// DeleteByID implements store.UserStore.DeleteByID.
func (s *UserStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.db.users, id)
	return nil
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return len(s.db.users)
}
