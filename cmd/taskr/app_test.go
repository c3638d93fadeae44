package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/taskr/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "info", ShutdownTimeoutSeconds: 5},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Auth:     config.AuthConfig{JWTSecret: "thisisasecretkeythatis32charslong!!", BcryptCost: 4},
		Notify:   config.NotifyConfig{Enabled: true, From: "no-reply@taskr.local", QueueSize: 10, Workers: 1},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewApplication_Memory(t *testing.T) {
	app, err := newApplication(context.Background(), testConfig(), discardLogger())
	require.NoError(t, err)
	defer app.cleanup(context.Background())

	assert.Nil(t, app.db)
	assert.NotNil(t, app.dispatcher)

	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "taskr_http_requests_total")
}

func TestNewApplication_Errors(t *testing.T) {
	t.Run("short secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.JWTSecret = "short"
		_, err := newApplication(context.Background(), cfg, discardLogger())
		assert.ErrorContains(t, err, "token service")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := testConfig()
		cfg.Database.Driver = "mongo"
		_, err := newApplication(context.Background(), cfg, discardLogger())
		assert.ErrorContains(t, err, `unsupported database driver "mongo"`)
	})
}

func TestServe_EndToEnd(t *testing.T) {
	app, err := newApplication(context.Background(), testConfig(), discardLogger())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()
	body, _ := json.Marshal(map[string]any{"name": "Ada", "email": "ada@example.com", "password": "secret1"})
	resp, err := http.Post(base+"/users", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
