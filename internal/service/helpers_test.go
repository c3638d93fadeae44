package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/phrazzld/taskr/internal/events"
	"github.com/phrazzld/taskr/internal/platform/memory"
	"github.com/phrazzld/taskr/internal/service/auth"
	"github.com/phrazzld/taskr/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

// recordingEmitter captures emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.AccountEvent
	err    error
}

func (r *recordingEmitter) EmitEvent(ctx context.Context, event *events.AccountEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingEmitter) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// fixture wires the services over an in-memory database.
type fixture struct {
	db       *memory.DB
	accounts *AccountServiceImpl
	tasks    *TaskServiceImpl
	authn    *auth.SessionAuthenticator
	hasher   auth.PasswordHasher
	emitter  *recordingEmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	emitter := &recordingEmitter{}
	return &fixture{
		db:       db,
		accounts: NewAccountService(db.Users(), db, hasher, tokens, emitter, nil),
		tasks:    NewTaskService(db.Tasks(), nil),
		authn:    auth.NewSessionAuthenticator(tokens, db.Users(), nil),
		hasher:   hasher,
		emitter:  emitter,
	}
}

// login registers an account and returns its authenticated principal.
func (f *fixture) login(t *testing.T, email string) *auth.Principal {
	t.Helper()
	ctx := context.Background()
	_, token, err := f.accounts.RegisterAndLogin(ctx, RegisterInput{
		Name: "User " + email, Email: email, Password: "secret1",
	})
	require.NoError(t, err)

	p, err := f.authn.Authenticate(ctx, token)
	require.NoError(t, err)
	return p
}

// failingTransactor runs the callback against stores whose task deletion
// fails.
type failingTransactor struct {
	db  *memory.DB
	err error
}

func (f *failingTransactor) WithinTx(ctx context.Context, fn store.TxFunc) error {
	return fn(ctx, f.db.Users(), &failingTaskStore{TaskStore: f.db.Tasks(), err: f.err})
}

type failingTaskStore struct {
	*memory.TaskStore
	err error
}

func (s *failingTaskStore) DeleteMany(ctx context.Context, filter store.TaskFilter) (int64, error) {
	return 0, s.err
}

var errBoom = errors.New("boom")
