package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/authz/application"
	"github.com/harborworks/cms/internal/authz/permission"
	"github.com/harborworks/cms/internal/platform/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "userID"

	// ResourceIDKey is the context key for the resource ID in ownership checks
	ResourceIDKey contextKey = "resourceID"

	// UserEmailKey is the context key for the authenticated user's email
	UserEmailKey contextKey = "userEmail"
)

// AuthorizationMiddleware provides permission-based authorization for
// HTTP handlers
type AuthorizationMiddleware struct {
	authzService *application.AuthzService
	logger       logger.Logger
}

// NewAuthorizationMiddleware creates a new authorization middleware
func NewAuthorizationMiddleware(authzService *application.AuthzService, logger logger.Logger) *AuthorizationMiddleware {
	return &AuthorizationMiddleware{
		authzService: authzService,
		logger:       logger,
	}
}

// RequirePermission creates a middleware that checks a single catalog
// permission
func (m *AuthorizationMiddleware) RequirePermission(p permission.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
			if !ok {
				m.logger.Warn(ctx, "user ID not found in context")
				WriteJSONError(w, ErrorCodeUnauthorized, "Authentication required", http.StatusUnauthorized)
				return
			}

			hasPermission, err := m.authzService.HasPermission(ctx, userID, p)
			if err != nil {
				m.logger.Error(ctx, "failed to check permission",
					"user_id", userID,
					"permission", p,
					"error", err,
				)
				WriteJSONError(w, ErrorCodeInternalServerError, "Failed to check permissions", http.StatusInternalServerError)
				return
			}

			if !hasPermission {
				m.logger.Warn(ctx, "permission denied",
					"user_id", userID,
					"permission", p,
				)
				WriteJSONError(w, ErrorCodeForbidden, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission creates a middleware that passes when the user
// holds at least one of the permissions
func (m *AuthorizationMiddleware) RequireAnyPermission(perms ...permission.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
			if !ok {
				m.logger.Warn(ctx, "user ID not found in context")
				WriteJSONError(w, ErrorCodeUnauthorized, "Authentication required", http.StatusUnauthorized)
				return
			}

			hasPermission, err := m.authzService.HasAnyPermission(ctx, userID, perms...)
			if err != nil {
				m.logger.Error(ctx, "failed to check permissions",
					"user_id", userID,
					"permissions", perms,
					"error", err,
				)
				WriteJSONError(w, ErrorCodeInternalServerError, "Failed to check permissions", http.StatusInternalServerError)
				return
			}

			if !hasPermission {
				m.logger.Warn(ctx, "permission denied",
					"user_id", userID,
					"required_permissions", perms,
				)
				WriteJSONError(w, ErrorCodeForbidden, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireResourcePermission creates a middleware for all/own scoped
// permission pairs over a concrete resource. The resource ID is read
// from the named URL parameter.
func (m *AuthorizationMiddleware) RequireResourcePermission(allPerm, ownPerm permission.Permission, resourceType, urlParam string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
			if !ok {
				m.logger.Warn(ctx, "user ID not found in context")
				WriteJSONError(w, ErrorCodeUnauthorized, "Authentication required", http.StatusUnauthorized)
				return
			}

			resourceIDStr := r.PathValue(urlParam)
			if resourceIDStr == "" {
				m.logger.Warn(ctx, "resource ID not found in URL", "param", urlParam)
				WriteJSONError(w, ErrorCodeValidationError, "Invalid request parameters", http.StatusBadRequest)
				return
			}

			resourceID, err := uuid.Parse(resourceIDStr)
			if err != nil {
				m.logger.Warn(ctx, "invalid resource ID",
					"resource_id", resourceIDStr,
					"error", err,
				)
				WriteJSONError(w, ErrorCodeValidationError, "Invalid request parameters", http.StatusBadRequest)
				return
			}

			if !m.authzService.CanForResource(ctx, userID, allPerm, ownPerm, resourceType, resourceID) {
				m.logger.Warn(ctx, "resource permission denied",
					"user_id", userID,
					"all_permission", allPerm,
					"own_permission", ownPerm,
					"resource_type", resourceType,
					"resource_id", resourceID,
				)
				WriteJSONError(w, ErrorCodeForbidden, "Insufficient permissions", http.StatusForbidden)
				return
			}

			ctx = context.WithValue(ctx, ResourceIDKey, resourceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID is a helper function to get the user ID from the request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetResourceID is a helper function to get the resource ID from the request context
func GetResourceID(ctx context.Context) (uuid.UUID, bool) {
	resourceID, ok := ctx.Value(ResourceIDKey).(uuid.UUID)
	return resourceID, ok
}

// SetUserID is a helper function to set the user ID in the request context
func SetUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
