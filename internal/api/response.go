package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/apperr"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps an error kind to its HTTP status. Unexpected errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrAuth):
		jsonError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, apperr.ErrForbidden):
		jsonError(w, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, apperr.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		jsonError(w, http.StatusConflict, "already exists")
	case errors.Is(err, apperr.ErrTransition):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrStorage):
		slog.Error("media storage failure", "error", err)
		jsonError(w, http.StatusBadGateway, "media storage unavailable")
	default:
		slog.Error("internal error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
