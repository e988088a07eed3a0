package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nmolina/reciclo/internal/apperr"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps a classified operation error to an HTTP response.
// Unclassified errors become an opaque 500 so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalid, apperr.CodeInvalidState:
		jsonError(w, http.StatusBadRequest, err.Error())
	case apperr.CodeForbidden:
		jsonError(w, http.StatusForbidden, err.Error())
	case apperr.CodeNotFound:
		jsonError(w, http.StatusNotFound, err.Error())
	case apperr.CodeConflict:
		jsonError(w, http.StatusConflict, err.Error())
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
