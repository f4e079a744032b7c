package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/authz/ports"
	"github.com/harborworks/cms/internal/platform/logger"
)

// AuthAdapter sits between the JWT middleware and the authorization
// middleware. The token subject carries the internal user ID; this
// middleware parses it, verifies an active authorization profile
// exists, and promotes the ID into the typed context slot all
// downstream checks read from. Deactivated users are cut off here,
// before any handler runs.
type AuthAdapter struct {
	profiles ports.ProfileRepository
	logger   logger.Logger
}

// NewAuthAdapter creates a new authentication adapter
func NewAuthAdapter(profiles ports.ProfileRepository, logger logger.Logger) *AuthAdapter {
	return &AuthAdapter{
		profiles: profiles,
		logger:   logger,
	}
}

// Middleware must be placed AFTER JWT middleware and BEFORE
// authorization middleware
func (a *AuthAdapter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		subject, ok := GetJWTUserID(ctx)
		if !ok {
			a.logger.Warn(ctx, "subject not found in context")
			WriteJSONError(w, ErrorCodeUnauthorized, "Authentication required", http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			a.logger.Warn(ctx, "token subject is not a valid user ID", "subject", subject)
			WriteJSONError(w, ErrorCodeInvalidToken, "Invalid token subject", http.StatusUnauthorized)
			return
		}

		profile, err := a.profiles.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, ports.ErrProfileNotFound) {
				WriteJSONError(w, ErrorCodeNotFound, "User profile not found", http.StatusNotFound)
				return
			}
			a.logger.Error(ctx, "failed to load user profile",
				"user_id", userID,
				"error", err,
			)
			WriteJSONError(w, ErrorCodeInternalServerError, "Failed to resolve user", http.StatusInternalServerError)
			return
		}

		if !profile.IsActive {
			a.logger.Warn(ctx, "deactivated user attempted access", "user_id", userID)
			WriteJSONError(w, ErrorCodeForbidden, "Account is deactivated", http.StatusForbidden)
			return
		}

		ctx = SetUserID(ctx, userID)
		if email, ok := GetJWTUserEmail(ctx); ok {
			ctx = context.WithValue(ctx, UserEmailKey, email)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserEmail is a helper to get the user's email from context
func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}
