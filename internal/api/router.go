package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskr/internal/api/middleware"
	"github.com/phrazzld/taskr/internal/api/shared"
	"github.com/phrazzld/taskr/internal/service"
	"github.com/phrazzld/taskr/internal/service/auth"
)

// RouterConfig holds the router's dependencies. MetricsHandler is mounted
// at /metrics when set.
type RouterConfig struct {
	Accounts       service.AccountService
	Tasks          service.TaskService
	Authenticator  auth.Authenticator
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(cfg.Logger))
	r.Use(middleware.Metrics)

	accountHandler := NewAccountHandler(cfg.Accounts, cfg.Logger)
	taskHandler := NewTaskHandler(cfg.Tasks, cfg.Logger)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Authenticator)

	// Public endpoints
	r.Post("/users", accountHandler.Register)
	r.Post("/users/login", accountHandler.Login)

	// Protected endpoints
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/users/logout", accountHandler.Logout)
		r.Post("/users/logoutAll", accountHandler.LogoutAll)
		r.Get("/users/me", accountHandler.Me)
		r.Patch("/users/me", accountHandler.UpdateMe)
		r.Delete("/users/me", accountHandler.DeleteMe)

		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks", taskHandler.List)
		r.Get("/tasks/{id}", taskHandler.Get)
		r.Patch("/tasks/{id}", taskHandler.Update)
		r.Delete("/tasks/{id}", taskHandler.Delete)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	return r
}
