package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskr/internal/api/shared"
	"github.com/phrazzld/taskr/internal/metrics"
	"github.com/phrazzld/taskr/internal/platform/logger"
	"github.com/phrazzld/taskr/internal/service"
	"github.com/phrazzld/taskr/internal/service/auth"
)

// AccountHandler handles the /users endpoints.
type AccountHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts service.AccountService, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{
		accounts: accounts,
		logger:   logger.With(slog.String("component", "account_handler")),
	}
}

// Register handles POST /users. The new account is logged in straight away.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !parseAndValidateRequest(w, r, &req) {
		return
	}

	user, token, err := h.accounts.RegisterAndLogin(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{User: userToResponse(user), Token: token})
}

// Login handles POST /users/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !parseAndValidateRequest(w, r, &req) {
		return
	}

	user, token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if reason := auth.ReasonOf(err); reason != "" {
			metrics.RecordAuthAttempt(string(reason))
		}
		HandleAPIError(w, r, err)
		return
	}

	metrics.RecordAuthAttempt(metrics.OutcomeSuccess)
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{User: userToResponse(user), Token: token})
}

// Logout handles POST /users/logout, revoking only the presented token.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Logout(r.Context(), p); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// LogoutAll handles POST /users/logoutAll.
func (h *AccountHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.accounts.LogoutAll(r.Context(), p); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Me handles GET /users/me.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(p.User))
}

// UpdateMe handles PATCH /users/me.
func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), p, fields)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// DeleteMe handles DELETE /users/me and returns the deleted profile.
func (h *AccountHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.Delete(r.Context(), p)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("account closed",
		slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}
