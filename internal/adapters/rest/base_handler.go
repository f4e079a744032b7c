package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/adapters/rest/middleware"
	"github.com/harborworks/cms/internal/platform/apperror"
	"github.com/harborworks/cms/internal/platform/logger"
)

// ErrorResponse is the JSON error envelope all handlers emit
type ErrorResponse struct {
	Error        string `json:"error"`
	BusinessCode string `json:"business_code,omitempty"`
	Message      string `json:"message"`
	Context      any    `json:"context,omitempty"`
}

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger logger.Logger
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// WriteJSONError writes a JSON error response
func (h *BaseHandler) WriteJSONError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:   code,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error(r.Context(), "failed to encode error response",
			"error", err,
			"error_code", code,
			"status_code", statusCode,
		)
	}
}

// WriteJSONResponse writes a successful JSON response
func (h *BaseHandler) WriteJSONResponse(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// HandleError translates service errors into HTTP responses. AppErrors
// carry their own status and codes; anything else becomes an opaque
// internal server error.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(appErr.HTTPStatus)

		resp := ErrorResponse{
			Error:        string(appErr.Code),
			BusinessCode: string(appErr.BusinessCode),
			Message:      appErr.Message,
			Context:      appErr.Details,
		}

		if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
			h.logger.Error(r.Context(), "failed to encode error response",
				"error", encodeErr,
			)
		}
		return
	}

	h.logger.Error(r.Context(), "unhandled error in request",
		"error", err,
		"path", r.URL.Path,
	)
	h.WriteJSONError(w, r, string(apperror.CodeInternalError), "An unexpected error occurred", http.StatusInternalServerError)
}

// ParseUUID parses a URL parameter as a UUID, writing a validation
// error response when it is malformed
func (h *BaseHandler) ParseUUID(w http.ResponseWriter, r *http.Request, value string, paramName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		h.WriteJSONError(w, r, string(apperror.CodeValidationFailed),
			"Invalid "+paramName+" parameter", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// parseIntParam parses a numeric query parameter, falling back to a
// default on absence or garbage
func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// GetUserIDFromContext returns the authenticated user ID. The auth
// middleware chain guarantees it exists on protected routes.
func (h *BaseHandler) GetUserIDFromContext(r *http.Request) uuid.UUID {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error(r.Context(), "user ID missing from context on protected route",
			"path", r.URL.Path,
		)
	}
	return userID
}
