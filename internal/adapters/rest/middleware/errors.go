package middleware

import (
	"encoding/json"
	"net/http"
)

// Error codes used by middleware responses
const (
	ErrorCodeUnauthorized        = "UNAUTHORIZED"
	ErrorCodeForbidden           = "FORBIDDEN"
	ErrorCodeNotFound            = "NOT_FOUND"
	ErrorCodeValidationError     = "VALIDATION_FAILED"
	ErrorCodeInvalidToken        = "INVALID_TOKEN"
	ErrorCodeTokenExpired        = "TOKEN_EXPIRED"
	ErrorCodeInternalServerError = "INTERNAL_ERROR"
)

// WriteJSONError writes a JSON error response with the same shape the
// REST handlers use
func WriteJSONError(w http.ResponseWriter, code string, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]any{
		"error":   code,
		"message": message,
	}

	// Ignore encoding errors here as we're already in error handling
	_ = json.NewEncoder(w).Encode(errorResp)
}
