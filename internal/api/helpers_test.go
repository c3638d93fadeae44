package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskr/internal/api/shared"
	"github.com/phrazzld/taskr/internal/platform/memory"
	"github.com/phrazzld/taskr/internal/service"
	"github.com/phrazzld/taskr/internal/service/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

// testServer is the full router over an in-memory database.
type testServer struct {
	handler http.Handler
	db      *memory.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	db := memory.New()
	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	handler := NewRouter(RouterConfig{
		Accounts:       service.NewAccountService(db.Users(), db, hasher, tokens, nil, log),
		Tasks:          service.NewTaskService(db.Tasks(), log),
		Authenticator:  auth.NewSessionAuthenticator(tokens, db.Users(), log),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:         log,
	})
	return &testServer{handler: handler, db: db}
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns its token.
func (s *testServer) register(t *testing.T, name, email string) (UserResponse, string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/users", "", map[string]any{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.User, resp.Token
}

func (s *testServer) createTask(t *testing.T, token, description string, completed bool) TaskResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/tasks", token, map[string]any{
		"description": description, "completed": completed,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var task TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&task))
	return task
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// errorMessage decodes an error response and checks it carries a trace ID.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode[shared.ErrorResponse](t, rec)
	require.Len(t, body.TraceID, 32)
	return body.Error
}
