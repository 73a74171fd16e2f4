package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/missionpool/backend/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the stable error response shape: a category clients can
// match on, a human message, and optional structured detail.
type errorBody struct {
	Error struct {
		Kind    string         `json:"kind"`
		Message string         `json:"message"`
		Meta    map[string]any `json:"meta,omitempty"`
	} `json:"error"`
}

// writeError maps an error to its transport status. Errors outside the
// taxonomy are logged and collapsed to a generic 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	var body errorBody
	if kind := apperr.KindOf(err); kind != "" {
		body.Error.Kind = string(kind)
		body.Error.Message = strings.TrimPrefix(err.Error(), string(kind)+": ")
		var e *apperr.Error
		if errors.As(err, &e) {
			body.Error.Meta = e.Meta
		}
	} else {
		logger.Error("internal error", "error", err)
		body.Error.Kind = "internal"
		body.Error.Message = "internal error"
	}
	writeJSON(w, status, body)
}

// bearerToken extracts the bearer credential, or "" when absent. The
// services treat "" as Unauthenticated.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
