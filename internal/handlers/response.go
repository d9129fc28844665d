package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Common error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	CodeInternalError = "INTERNAL_ERROR"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message, code string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, messageResponse{Message: message})
}

// handleError maps business errors to their status and hides everything else behind a 500.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		status, code := statusFor(de.Kind)
		writeError(w, status, de.Message, code)
		return
	}

	logger.ErrorContext(r.Context(), "Request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "Internal server error", CodeInternalError)
}

func statusFor(kind error) (int, string) {
	switch {
	case errors.Is(kind, domain.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.Is(kind, domain.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(kind, domain.ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(kind, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(kind, domain.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(kind, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, CodeRateLimit
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}
