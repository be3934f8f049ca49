package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ledgerly/internal/auth"
	"ledgerly/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes. Unknown errors are
// reported as 500 without leaking their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, core.ErrValidation):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, auth.ErrEmailTaken):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		msg = err.Error()
	case errors.Is(err, core.ErrUnauthenticated):
		status = http.StatusUnauthorized
		msg = err.Error()
	case errors.Is(err, core.ErrForbidden):
		status = http.StatusForbidden
		msg = err.Error()
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, core.ErrRemote):
		status = http.StatusBadGateway
		msg = "upstream store unavailable"
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Unhandled handler error", "error", err, "path", r.URL.Path)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return core.ErrValidation
	}
	return nil
}
