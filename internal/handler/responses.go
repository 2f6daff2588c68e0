package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/packworks/packworks/internal/domain"
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

	// Encode through a pooled buffer so a marshal failure never produces
	// a half-written body
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
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

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgUserNotFoundError     = "User not found"
	ErrMsgUnknownPackError      = "That pack does not exist"
	ErrMsgNotEnoughCreditsError = "Not enough credits"
	ErrMsgCardNotFoundError     = "Card not found"
	ErrMsgCardNotAvailableError = "Card is no longer available"
	ErrMsgRevealCompleteError   = "Reveal is already complete"
	ErrMsgRevealNotActiveError  = "Reveal is not active"
	ErrMsgEmptyPackError        = "Pack contains no cards"
	ErrMsgNothingToShipError    = "No cards selected for shipping"
	ErrMsgInvalidInputError     = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses so internals never leak to API clients.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrUnknownPack):
		return http.StatusNotFound, ErrMsgUnknownPackError
	case errors.Is(err, domain.ErrCardNotFound):
		return http.StatusNotFound, ErrMsgCardNotFoundError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired, ErrMsgNotEnoughCreditsError
	case errors.Is(err, domain.ErrCardNotAvailable):
		return http.StatusConflict, ErrMsgCardNotAvailableError
	case errors.Is(err, domain.ErrRevealComplete):
		return http.StatusConflict, ErrMsgRevealCompleteError
	case errors.Is(err, domain.ErrRevealNotActive):
		return http.StatusConflict, ErrMsgRevealNotActiveError
	case errors.Is(err, domain.ErrEmptyPack):
		return http.StatusBadRequest, ErrMsgEmptyPackError
	case errors.Is(err, domain.ErrNothingToShip):
		return http.StatusBadRequest, ErrMsgNothingToShipError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrInvalidConfig):
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}

	// Wrapped errors with a domain error as the base
	unwrapped := errors.Unwrap(err)
	if unwrapped != nil && unwrapped != err {
		return mapServiceErrorToUserMessage(unwrapped)
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
