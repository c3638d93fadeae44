package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/platform/logger"
	"github.com/phrazzld/taskr/internal/store"
)

const userColumns = `id, name, email, age, password_hash, sessions, created_at, updated_at`

// UserStore implements store.UserStore on PostgreSQL.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a UserStore. db may be a *sql.DB or a *sql.Tx.
// If logger is nil, slog.Default() is used.
func NewUserStore(db store.DBTX, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u        domain.User
		age      sql.NullInt64
		sessions []byte
	)
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &age, &u.HashedPassword, &sessions, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if age.Valid {
		n := int(age.Int64)
		u.Age = &n
	}

	u.Sessions = []string{}
	if len(sessions) > 0 {
		if err := json.Unmarshal(sessions, &u.Sessions); err != nil {
			return nil, fmt.Errorf("failed to decode sessions: %w", err)
		}
	}
	return &u, nil
}

func encodeSessions(sessions []string) (string, error) {
	if sessions == nil {
		sessions = []string{}
	}
	b, err := json.Marshal(sessions)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Insert implements store.UserStore.Insert.
func (s *UserStore) Insert(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return domain.NewValidationError("password", "must be hashed before saving", domain.ErrInvalidPassword)
	}

	sessions, err := encodeSessions(user.Sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)
	`
	_, err = s.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Age, user.HashedPassword,
		sessions, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		mapped := wrapErr("user", "insert", err)
		if store.IsDuplicateError(mapped) {
			log.Debug("email already in use", slog.String("user_id", user.ID.String()))
		} else {
			log.Error("failed to insert user",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		}
		return mapped
	}

	log.Debug("user inserted", slog.String("user_id", user.ID.String()))
	return nil
}

// FindByID implements store.UserStore.FindByID.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.findOne(ctx, query, id)
}

// FindOne implements store.UserStore.FindOne.
func (s *UserStore) FindOne(ctx context.Context, filter store.UserFilter) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.findOne(ctx, query, filter.Email)
}

func (s *UserStore) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		mapped := wrapErr("user", "find", err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to find user", slog.String("error", err.Error()))
		return nil, mapped
	}
	return u, nil
}

// UpdateByID implements store.UserStore.UpdateByID.
func (s *UserStore) UpdateByID(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET name = $2, email = $3, age = $4, password_hash = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Age, user.HashedPassword, user.UpdatedAt,
	)
	if err != nil {
		mapped := wrapErr("user", "update", err)
		if !store.IsDuplicateError(mapped) {
			log.Error("failed to update user",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		}
		return mapped
	}

	if err := checkRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Debug("user updated", slog.String("user_id", user.ID.String()))
	return nil
}

// PushSession implements store.UserStore.PushSession.
func (s *UserStore) PushSession(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE users SET sessions = sessions || jsonb_build_array($2::text) WHERE id = $1`
	return s.execSessions(ctx, "push_session", query, id, token)
}

// PullSession implements store.UserStore.PullSession.
func (s *UserStore) PullSession(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE users SET sessions = sessions - $2::text WHERE id = $1`
	return s.execSessions(ctx, "pull_session", query, id, token)
}

// ClearSessions implements store.UserStore.ClearSessions.
func (s *UserStore) ClearSessions(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET sessions = '[]'::jsonb WHERE id = $1`
	return s.execSessions(ctx, "clear_sessions", query, id)
}

func (s *UserStore) execSessions(ctx context.Context, op, query string, args ...any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update sessions",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return wrapErr("user", op, err)
	}
	return checkRowsAffected(result, store.ErrUserNotFound)
}

// DeleteByID implements store.UserStore.DeleteByID.
func (s *UserStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return wrapErr("user", "delete", err)
	}

	if err := checkRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Debug("user deleted", slog.String("user_id", id.String()))
	return nil
}
