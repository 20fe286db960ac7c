package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

// NotFoundError is returned for unknown stop ids.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

// ValidationError is returned for malformed query parameters.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

type errorResponse struct {
	Detail string `json:"detail"`
}

func statusOf(err error) int {
	var nf *NotFoundError
	var ve *ValidationError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ve):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Errorw("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}
