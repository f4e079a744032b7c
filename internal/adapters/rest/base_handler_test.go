package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/adapters/rest"
	"github.com/harborworks/cms/internal/adapters/rest/middleware"
	"github.com/harborworks/cms/internal/platform/apperror"
)

// mockLogger implements the logger.Logger interface for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(ctx context.Context, msg string, keysAndValues ...interface{}) {}

func TestWriteJSONError(t *testing.T) {
	tests := []struct {
		name               string
		code               string
		message            string
		statusCode         int
		expectedBody       map[string]interface{}
		expectedStatusCode int
	}{
		{
			name:       "writes not found error",
			code:       "NOT_FOUND",
			message:    "Resource not found",
			statusCode: http.StatusNotFound,
			expectedBody: map[string]interface{}{
				"error":   "NOT_FOUND",
				"message": "Resource not found",
			},
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:       "writes validation error",
			code:       "VALIDATION_FAILED",
			message:    "Invalid input",
			statusCode: http.StatusBadRequest,
			expectedBody: map[string]interface{}{
				"error":   "VALIDATION_FAILED",
				"message": "Invalid input",
			},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:       "writes internal error",
			code:       "INTERNAL_ERROR",
			message:    "Something went wrong",
			statusCode: http.StatusInternalServerError,
			expectedBody: map[string]interface{}{
				"error":   "INTERNAL_ERROR",
				"message": "Something went wrong",
			},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := rest.NewBaseHandler(&mockLogger{})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()

			handler.WriteJSONError(rec, req, tt.code, tt.message, tt.statusCode)

			if rec.Code != tt.expectedStatusCode {
				t.Errorf("expected status code %d, got %d", tt.expectedStatusCode, rec.Code)
			}

			contentType := rec.Header().Get("Content-Type")
			if contentType != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", contentType)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to parse response body: %v", err)
			}

			if response["error"] != tt.expectedBody["error"] {
				t.Errorf("expected error %v, got %v", tt.expectedBody["error"], response["error"])
			}
			if response["message"] != tt.expectedBody["message"] {
				t.Errorf("expected message %v, got %v", tt.expectedBody["message"], response["message"])
			}
		})
	}
}

func TestWriteJSONResponse(t *testing.T) {
	tests := []struct {
		name               string
		data               interface{}
		statusCode         int
		expectedStatusCode int
	}{
		{
			name: "writes success response with struct",
			data: struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			}{
				ID:    "123",
				Title: "Annual Report",
			},
			statusCode:         http.StatusOK,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "writes created response with map",
			data:               map[string]string{"status": "created"},
			statusCode:         http.StatusCreated,
			expectedStatusCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := rest.NewBaseHandler(&mockLogger{})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()

			handler.WriteJSONResponse(rec, req, tt.data, tt.statusCode)

			if rec.Code != tt.expectedStatusCode {
				t.Errorf("expected status code %d, got %d", tt.expectedStatusCode, rec.Code)
			}

			contentType := rec.Header().Get("Content-Type")
			if contentType != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", contentType)
			}

			if tt.data != nil && rec.Body.Len() > 0 {
				var response interface{}
				if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
					t.Fatalf("failed to parse response body: %v", err)
				}
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
		expectedError      string
		expectedBizCode    string
		expectedContext    interface{}
	}{
		{
			name: "handles AppError with business code",
			err: apperror.New(
				apperror.CodeNotFound,
				apperror.BusinessCodeContentNotFound,
				"content item not found",
				http.StatusNotFound,
			),
			expectedStatusCode: http.StatusNotFound,
			expectedError:      "NOT_FOUND",
			expectedBizCode:    "CONTENT_NOT_FOUND",
		},
		{
			name: "handles AppError with details",
			err: apperror.New(
				apperror.CodeValidationFailed,
				apperror.BusinessCodeValidationFailed,
				"title is required",
				http.StatusBadRequest,
			).WithDetails(map[string]string{"field": "title"}),
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "VALIDATION_FAILED",
			expectedBizCode:    "VALIDATION_FAILED",
			expectedContext:    map[string]interface{}{"field": "title"},
		},
		{
			name:               "handles unknown error as internal error",
			err:                errors.New("unexpected error"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedError:      "INTERNAL_ERROR",
		},
		{
			name: "handles wrapped AppError",
			err: apperror.Wrap(
				errors.New("database error"),
				apperror.CodeInternalError,
				apperror.BusinessCodeGeneral,
				"failed to fetch data",
				http.StatusInternalServerError,
			),
			expectedStatusCode: http.StatusInternalServerError,
			expectedError:      "INTERNAL_ERROR",
			expectedBizCode:    "GENERAL",
		},
		{
			name: "handles status conflict error",
			err: apperror.New(
				apperror.CodeConflict,
				apperror.BusinessCodeStateConflict,
				"content was modified by another user",
				http.StatusConflict,
			),
			expectedStatusCode: http.StatusConflict,
			expectedError:      "CONFLICT",
			expectedBizCode:    "STATE_CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := rest.NewBaseHandler(&mockLogger{})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			if rec.Code != tt.expectedStatusCode {
				t.Errorf("expected status code %d, got %d", tt.expectedStatusCode, rec.Code)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to parse response body: %v", err)
			}

			if response["error"] != tt.expectedError {
				t.Errorf("expected error code %v, got %v", tt.expectedError, response["error"])
			}

			if tt.expectedBizCode != "" {
				if response["business_code"] != tt.expectedBizCode {
					t.Errorf("expected business code %v, got %v", tt.expectedBizCode, response["business_code"])
				}
			}

			if tt.expectedContext != nil {
				respContext, ok := response["context"]
				if !ok {
					t.Errorf("expected context in response but not found")
				} else {
					// Compare as JSON to handle type differences
					expectedJSON, _ := json.Marshal(tt.expectedContext)
					actualJSON, _ := json.Marshal(respContext)
					if string(expectedJSON) != string(actualJSON) {
						t.Errorf("expected context %s, got %s", expectedJSON, actualJSON)
					}
				}
			}
		})
	}
}

func TestParseUUID(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		paramName   string
		expectValid bool
		expectUUID  uuid.UUID
	}{
		{
			name:        "parses valid UUID",
			value:       "550e8400-e29b-41d4-a716-446655440000",
			paramName:   "id",
			expectValid: true,
			expectUUID:  uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		},
		{
			name:        "rejects invalid UUID",
			value:       "not-a-uuid",
			paramName:   "userId",
			expectValid: false,
			expectUUID:  uuid.Nil,
		},
		{
			name:        "rejects empty string",
			value:       "",
			paramName:   "id",
			expectValid: false,
			expectUUID:  uuid.Nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := rest.NewBaseHandler(&mockLogger{})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()

			result, valid := handler.ParseUUID(rec, req, tt.value, tt.paramName)

			if valid != tt.expectValid {
				t.Errorf("expected valid=%v, got %v", tt.expectValid, valid)
			}

			if result != tt.expectUUID {
				t.Errorf("expected UUID %v, got %v", tt.expectUUID, result)
			}

			if !tt.expectValid {
				if rec.Code != http.StatusBadRequest {
					t.Errorf("expected status code 400 for invalid UUID, got %d", rec.Code)
				}

				var response map[string]interface{}
				if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
					t.Fatalf("failed to parse error response: %v", err)
				}

				if response["error"] != "VALIDATION_FAILED" {
					t.Errorf("expected error code VALIDATION_FAILED, got %v", response["error"])
				}

				expectedMessage := "Invalid " + tt.paramName + " parameter"
				if response["message"] != expectedMessage {
					t.Errorf("expected message %q, got %v", expectedMessage, response["message"])
				}
			}
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	t.Run("retrieves user ID from context", func(t *testing.T) {
		handler := rest.NewBaseHandler(&mockLogger{})

		userID := uuid.New()
		ctx := middleware.SetUserID(context.Background(), userID)
		req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

		result := handler.GetUserIDFromContext(req)
		if result != userID {
			t.Errorf("expected user ID %v, got %v", userID, result)
		}
	})

	t.Run("returns nil UUID when not authenticated", func(t *testing.T) {
		handler := rest.NewBaseHandler(&mockLogger{})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		result := handler.GetUserIDFromContext(req)
		if result != uuid.Nil {
			t.Errorf("expected nil UUID, got %v", result)
		}
	})
}
