package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/api/middleware"
	"github.com/phrazzld/taskr/internal/api/shared"
	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/service"
	"github.com/phrazzld/taskr/internal/service/auth"
)

// requirePrincipal returns the authenticated principal, writing a 401 when
// the route was reached without one.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p, ok := middleware.GetPrincipal(r)
	if !ok {
		HandleAPIError(w, r, auth.ErrMissingToken)
		return nil, false
	}
	return p, true
}

// getPathUUID parses a UUID path parameter. A missing or malformed id is
// reported as not found, like an id that belongs to someone else.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, paramName))
	if err != nil {
		return uuid.Nil, service.ErrNotFound
	}
	return id, nil
}

// handlePrincipalAndPathUUID combines requirePrincipal and getPathUUID,
// writing the error response if either fails.
func handlePrincipalAndPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (*auth.Principal, uuid.UUID, bool) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}

	id, err := getPathUUID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err)
		return nil, uuid.Nil, false
	}
	return p, id, true
}

// parseAndValidateRequest decodes the JSON body into req and validates it,
// writing a 400 on failure.
func parseAndValidateRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidBody, err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}

// decodeFields decodes a partial-update body into a field map.
func decodeFields(w http.ResponseWriter, r *http.Request) (domain.Fields, bool) {
	var fields domain.Fields
	if err := shared.DecodeJSON(r, &fields); err != nil || fields == nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidBody, err)
		return nil, false
	}
	return fields, true
}
