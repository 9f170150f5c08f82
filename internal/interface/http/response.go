package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/pkg/logger"
	"github.com/VeraBsp/filmorate/pkg/validation"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse is the error envelope.
type JSONResponse struct {
	Success   bool      `json:"success"`
	Error     *APIError `json:"error,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Error codes.
const (
	codeNotFound   = "not_found"
	codeValidation = "validation_error"
	codeConflict   = "conflict"
	codeInternal   = "internal_error"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// writeJSON writes data as the response body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeJSONError writes the error envelope.
func writeJSONError(w http.ResponseWriter, r *http.Request, status int, code, message string, details ...string) {
	writeJSON(w, status, JSONResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		RequestID: w.Header().Get(headerRequestID),
	})
}

// writeError maps an application error to a status code and writes it.
// Unexpected errors are logged and reported without internals.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		details := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			details = append(details, f.Message)
		}
		writeJSONError(w, r, http.StatusBadRequest, codeValidation, "validation failed", details...)
	case shared.IsNotFound(err):
		writeJSONError(w, r, http.StatusNotFound, codeNotFound, messageOf(err))
	case shared.IsValidation(err):
		writeJSONError(w, r, http.StatusBadRequest, codeValidation, messageOf(err))
	case shared.IsAlreadyExists(err):
		writeJSONError(w, r, http.StatusConflict, codeConflict, messageOf(err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSONError(w, r, http.StatusServiceUnavailable, "request_canceled", "request was canceled")
	default:
		logger.FromContextOr(r.Context(), s.logger).Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Err(err),
		)
		writeJSONError(w, r, http.StatusInternalServerError, codeInternal, "an unexpected error occurred")
	}
}

// messageOf returns the domain message when err carries one.
func messageOf(err error) string {
	var target *shared.DomainError
	if errors.As(err, &target) && target.Message != "" {
		return target.Message
	}
	return err.Error()
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return shared.NewDomainError("http", "Decode", shared.ErrInvalidInput, "request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		msg := "malformed JSON body"
		if errors.Is(err, shared.ErrValidation) {
			msg = err.Error()
		}
		return shared.WrapError("http", "Decode", shared.ErrInvalidInput, msg, err)
	}
	return nil
}

// pathID parses a positive id from a chi URL parameter.
func pathID[T shared.ID](r *http.Request, name string) (T, error) {
	id, err := shared.ParseID[T](chi.URLParam(r, name))
	if err != nil {
		return 0, shared.WrapError("http", "Path", shared.ErrInvalidID, fmt.Sprintf("%s must be a positive integer", name), err)
	}
	return id, nil
}

// queryID parses a required positive id from the query string.
func queryID[T shared.ID](r *http.Request, name string) (T, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, shared.NewDomainError("http", "Query", shared.ErrInvalidInput, name+" is required")
	}
	id, err := shared.ParseID[T](raw)
	if err != nil {
		return 0, shared.WrapError("http", "Query", shared.ErrInvalidID, fmt.Sprintf("%s must be a positive integer", name), err)
	}
	return id, nil
}
