package authz_adapter

import (
	"context"

	"github.com/google/uuid"

	authzapp "github.com/harborworks/cms/internal/authz/application"
	"github.com/harborworks/cms/internal/authz/permission"
	contentports "github.com/harborworks/cms/internal/content/ports"
)

// AuthzAdapter bridges the authorization service to the bounded
// contexts that need permission checks. It implements the Authorizer
// interfaces the other modules define for themselves.
type AuthzAdapter struct {
	authzService *authzapp.AuthzService
}

// NewAuthzAdapter creates a new authorization adapter
func NewAuthzAdapter(authzService *authzapp.AuthzService) *AuthzAdapter {
	return &AuthzAdapter{
		authzService: authzService,
	}
}

// Can checks a single permission for a user
func (a *AuthzAdapter) Can(ctx context.Context, userID uuid.UUID, p permission.Permission) bool {
	return a.authzService.Can(ctx, userID, p)
}

// CanForResource checks an all/own permission pair against a concrete
// resource
func (a *AuthzAdapter) CanForResource(ctx context.Context, userID uuid.UUID, allPerm, ownPerm permission.Permission, resourceType string, resourceID uuid.UUID) bool {
	return a.authzService.CanForResource(ctx, userID, allPerm, ownPerm, resourceType, resourceID)
}

// DisplayName resolves a human-readable identity for audit entries.
// Falls back to the raw ID when the profile cannot be resolved, so
// audit writes never fail on a directory miss.
func (a *AuthzAdapter) DisplayName(ctx context.Context, userID uuid.UUID) string {
	profile, err := a.authzService.GetProfile(ctx, userID)
	if err != nil {
		return userID.String()
	}
	if profile.DisplayName != "" {
		return profile.DisplayName
	}
	return profile.Email
}

// Compile-time checks to ensure we implement the interfaces
var (
	_ contentports.Authorizer     = (*AuthzAdapter)(nil)
	_ contentports.ActorDirectory = (*AuthzAdapter)(nil)
)
