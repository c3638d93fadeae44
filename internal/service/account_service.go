package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/events"
	"github.com/phrazzld/taskr/internal/platform/logger"
	"github.com/phrazzld/taskr/internal/service/auth"
	"github.com/phrazzld/taskr/internal/store"
)

// RegisterInput is the data needed to open an account.
type RegisterInput struct {
	Name     string
	Email    string
	Age      *int
	Password string
}

// AccountService provides the account lifecycle operations.
type AccountService interface {
	// Register validates and stores a new account. It creates no session.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// RegisterAndLogin registers the account and then logs it in.
	RegisterAndLogin(ctx context.Context, input RegisterInput) (*domain.User, string, error)

	// Login checks credentials and opens a new session.
	// Returns auth.ErrInvalidCredentials for an unknown email or a wrong password.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// Logout revokes the principal's current token only.
	Logout(ctx context.Context, principal *auth.Principal) error

	// LogoutAll revokes every session of the principal's account.
	LogoutAll(ctx context.Context, principal *auth.Principal) error

	// UpdateProfile applies a partial update limited to name, email, age and
	// password. Any other key rejects the whole update.
	UpdateProfile(ctx context.Context, principal *auth.Principal, fields domain.Fields) (*domain.User, error)

	// Delete removes the principal's tasks and then the account itself, and
	// returns the deleted account.
	Delete(ctx context.Context, principal *auth.Principal) (*domain.User, error)
}

// AccountServiceImpl implements AccountService.
type AccountServiceImpl struct {
	users   store.UserStore
	tx      store.Transactor
	hasher  auth.PasswordHasher
	tokens  auth.TokenService
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ AccountService = (*AccountServiceImpl)(nil)

// NewAccountService creates an AccountService. emitter may be nil, in which
// case no lifecycle events are raised.
func NewAccountService(
	users store.UserStore,
	tx store.Transactor,
	hasher auth.PasswordHasher,
	tokens auth.TokenService,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *AccountServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountServiceImpl{
		users:   users,
		tx:      tx,
		hasher:  hasher,
		tokens:  tokens,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "account_service")),
	}
}

// Register implements AccountService.
func (s *AccountServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(input.Name, input.Email, input.Age, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.hashPassword(user); err != nil {
		return nil, err
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, emailTaken()
		}
		log.Error("failed to store new account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register account: %w", err)
	}

	log.Info("account registered", slog.String("user_id", user.ID.String()))
	s.emit(ctx, events.AccountRegistered, user)
	return user, nil
}

// RegisterAndLogin implements AccountService.
func (s *AccountServiceImpl) RegisterAndLogin(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	user, err := s.Register(ctx, input)
	if err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login implements AccountService.
func (s *AccountServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.FindOne(ctx, store.UserFilter{Email: domain.NormalizeEmail(email)})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login rejected: unknown email")
			return nil, "", auth.ErrInvalidCredentials
		}
		log.Error("failed to look up account for login", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to log in: %w", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		log.Debug("login rejected: wrong password", slog.String("user_id", user.ID.String()))
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	log.Info("account logged in", slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// openSession issues a token and records it in the account's session list.
func (s *AccountServiceImpl) openSession(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	if err := s.users.PushSession(ctx, user.ID, token); err != nil {
		return "", s.accountErr(ctx, "failed to record session", err)
	}

	user.AddSession(token)
	return token, nil
}

// Logout implements AccountService.
func (s *AccountServiceImpl) Logout(ctx context.Context, principal *auth.Principal) error {
	if err := s.users.PullSession(ctx, principal.UserID(), principal.Token); err != nil {
		return s.accountErr(ctx, "failed to revoke session", err)
	}
	principal.User.RemoveSession(principal.Token)

	logger.FromContextOrDefault(ctx, s.logger).Info("session revoked",
		slog.String("user_id", principal.UserID().String()))
	return nil
}

// LogoutAll implements AccountService.
func (s *AccountServiceImpl) LogoutAll(ctx context.Context, principal *auth.Principal) error {
	if err := s.users.ClearSessions(ctx, principal.UserID()); err != nil {
		return s.accountErr(ctx, "failed to revoke sessions", err)
	}
	principal.User.ClearSessions()

	logger.FromContextOrDefault(ctx, s.logger).Info("all sessions revoked",
		slog.String("user_id", principal.UserID().String()))
	return nil
}

// UpdateProfile implements AccountService.
func (s *AccountServiceImpl) UpdateProfile(
	ctx context.Context,
	principal *auth.Principal,
	fields domain.Fields,
) (*domain.User, error) {
	patch, err := domain.ParseUserPatch(fields)
	if err != nil {
		return nil, err
	}

	updated, err := patch.Apply(principal.User)
	if err != nil {
		return nil, err
	}

	if patch.PasswordChanged() {
		if err := s.hashPassword(updated); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateByID(ctx, updated); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, emailTaken()
		}
		return nil, s.accountErr(ctx, "failed to update account", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("account updated",
		slog.String("user_id", updated.ID.String()),
		slog.Bool("password_changed", patch.PasswordChanged()))
	return updated, nil
}

// Delete implements AccountService. On Postgres both steps share one
// transaction; on backends without transactions a failure after the task
// removal leaves the account in place without its tasks.
func (s *AccountServiceImpl) Delete(ctx context.Context, principal *auth.Principal) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ownerID := principal.UserID()

	var removed int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, users store.UserStore, tasks store.TaskStore) error {
		n, err := tasks.DeleteMany(ctx, store.TaskFilter{Owner: ownerID})
		if err != nil {
			return fmt.Errorf("failed to delete owned tasks: %w", err)
		}
		removed = n
		return users.DeleteByID(ctx, ownerID)
	})
	if err != nil {
		return nil, s.accountErr(ctx, "failed to delete account", err)
	}

	log.Info("account deleted",
		slog.String("user_id", ownerID.String()),
		slog.Int64("tasks_deleted", removed))

	s.emit(ctx, events.AccountDeleted, principal.User)
	return principal.User, nil
}

// hashPassword replaces the plaintext password with its hash.
func (s *AccountServiceImpl) hashPassword(user *domain.User) error {
	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""
	return nil
}

// emit raises an account event. Failures are logged and never propagate.
func (s *AccountServiceImpl) emit(ctx context.Context, eventType events.Type, user *domain.User) {
	if s.emitter == nil {
		return
	}
	event := events.NewAccountEvent(eventType, user.ID, user.Email, user.Name)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit account event",
			slog.String("error", err.Error()),
			slog.String("event_type", string(eventType)),
			slog.String("user_id", user.ID.String()))
	}
}

// accountErr maps a store failure on the principal's own account. A missing
// account means it was deleted concurrently.
func (s *AccountServiceImpl) accountErr(ctx context.Context, msg string, err error) error {
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrNotFound
	}
	logger.FromContextOrDefault(ctx, s.logger).Error(msg, slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", msg, err)
}

func emailTaken() error {
	return domain.NewValidationError("email", "is already taken", domain.ErrEmailTaken)
}
