package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"colorrush/internal/domain"
	"colorrush/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode through a pooled buffer to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent; nothing to do but log
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs the raw error and writes the mapped
// user-facing response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	logger.FromContext(r.Context()).Error("Operation failed", "op", opName, "error", err)
	status, userMsg := mapServiceErrorToUserMessage(err)
	respondError(w, status, userMsg)
}

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes
// and messages users can act on.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInvalidWager):
		return http.StatusBadRequest, ErrMsgInvalidWagerError
	case errors.Is(err, domain.ErrInvalidColor):
		return http.StatusBadRequest, ErrMsgInvalidColorError
	case errors.Is(err, domain.ErrWrongPhase):
		return http.StatusConflict, ErrMsgWrongPhaseError
	case errors.Is(err, domain.ErrGameNotStarted):
		return http.StatusConflict, ErrMsgGameNotStartedError
	case errors.Is(err, domain.ErrBetNotFound):
		return http.StatusBadRequest, ErrMsgBetNotFoundError
	case errors.Is(err, domain.ErrSignInRateLimited):
		return http.StatusTooManyRequests, ErrMsgSignInBlockedError
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, ErrMsgTooManyRequestsError
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	// For short custom messages (tests, wrapped causes), surface them
	errMsg := err.Error()
	if errMsg != "" && len(errMsg) < 200 {
		return http.StatusInternalServerError, errMsg
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
