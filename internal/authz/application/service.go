package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/authz/domain"
	"github.com/harborworks/cms/internal/authz/permission"
	"github.com/harborworks/cms/internal/authz/ports"
	"github.com/harborworks/cms/internal/platform/apperror"
	"github.com/harborworks/cms/internal/platform/logger"
	"github.com/harborworks/cms/internal/platform/ownership"
)

// Error definitions for service operations using AppError
var (
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeProfileNotFound,
		"user profile not found",
		http.StatusNotFound,
	)
	ErrGroupNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeGroupNotFound,
		"permission group not found",
		http.StatusNotFound,
	)
	ErrInvalidPermission = apperror.New(
		apperror.CodeBadRequest,
		apperror.BusinessCodeInvalidPermission,
		"permission is not in the catalog",
		http.StatusBadRequest,
	)
	ErrUnknownRole = apperror.New(
		apperror.CodeBadRequest,
		apperror.BusinessCodeUnknownRole,
		"unknown role",
		http.StatusBadRequest,
	)
	ErrPermissionDenied = apperror.New(
		apperror.CodeForbidden,
		apperror.BusinessCodePermissionDenied,
		"permission denied",
		http.StatusForbidden,
	)
)

// AuthzService answers permission questions. It is a pure read side:
// resolution merges the static role catalog with per-user custom grants
// and group bundles, and every failure path denies rather than errors
// open.
type AuthzService struct {
	profiles          ports.ProfileRepository
	groups            ports.GroupRepository
	ownershipRegistry ownership.Registry
	logger            logger.Logger
}

// NewAuthzService creates a new authorization service
func NewAuthzService(
	profiles ports.ProfileRepository,
	groups ports.GroupRepository,
	ownershipRegistry ownership.Registry,
	logger logger.Logger,
) *AuthzService {
	return &AuthzService{
		profiles:          profiles,
		groups:            groups,
		ownershipRegistry: ownershipRegistry,
		logger:            logger,
	}
}

// ===== RESOLUTION =====

// ResolveEffectivePermissions computes the full grant for a user:
// role-derived permissions, plus custom grants, plus the union of all
// group bundles. Super-admins resolve to the universal set without
// touching group data; deactivated users resolve to the empty set.
func (s *AuthzService) ResolveEffectivePermissions(ctx context.Context, userID uuid.UUID) (*domain.PermissionSet, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("AuthzService.ResolveEffectivePermissions: %w", err)
	}

	base := profile.BasePermissions()
	if base.IsUniversal() || !profile.IsActive || len(profile.GroupIDs) == 0 {
		return base, nil
	}

	memberships, err := s.groups.GetByIDs(ctx, profile.GroupIDs)
	if err != nil {
		return nil, fmt.Errorf("AuthzService.ResolveEffectivePermissions: %w", err)
	}
	for _, group := range memberships {
		if !group.IsActive {
			continue
		}
		base = base.Union(group.PermissionSet())
	}
	return base, nil
}

// ===== QUERY OPERATIONS =====

// HasPermission checks if a user holds a single permission. Unknown
// tokens are rejected rather than silently denied so that a typo in a
// caller surfaces as an error instead of a mystery 403.
func (s *AuthzService) HasPermission(ctx context.Context, userID uuid.UUID, p permission.Permission) (bool, error) {
	if !permission.IsValid(p) {
		s.logger.Warn(ctx, "invalid permission requested",
			"user_id", userID,
			"permission", p,
		)
		return false, ErrInvalidPermission
	}

	effective, err := s.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return effective.Has(p), nil
}

// HasAnyPermission checks if a user holds at least one of the permissions
func (s *AuthzService) HasAnyPermission(ctx context.Context, userID uuid.UUID, perms ...permission.Permission) (bool, error) {
	for _, p := range perms {
		if !permission.IsValid(p) {
			return false, ErrInvalidPermission
		}
	}

	effective, err := s.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return effective.HasAny(perms...), nil
}

// HasAllPermissions checks if a user holds every one of the permissions
func (s *AuthzService) HasAllPermissions(ctx context.Context, userID uuid.UUID, perms ...permission.Permission) (bool, error) {
	for _, p := range perms {
		if !permission.IsValid(p) {
			return false, ErrInvalidPermission
		}
	}

	effective, err := s.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return effective.HasAll(perms...), nil
}

// Can is the fail-closed guard used by middleware and services: any
// resolution failure, including a missing profile, is logged and
// reported as a plain deny. Use HasPermission when the caller needs to
// distinguish errors from denials.
func (s *AuthzService) Can(ctx context.Context, userID uuid.UUID, p permission.Permission) bool {
	allowed, err := s.HasPermission(ctx, userID, p)
	if err != nil {
		s.logger.Warn(ctx, "permission check failed closed",
			"user_id", userID,
			"permission", p,
			"error", err,
		)
		return false
	}
	return allowed
}

// CanForResource checks an ownership-scoped permission against a
// concrete resource: the "_all" variant short-circuits, otherwise the
// "_own" variant applies only when the registered ownership checker
// confirms the user owns the resource. Fails closed on every error.
func (s *AuthzService) CanForResource(
	ctx context.Context,
	userID uuid.UUID,
	allPerm, ownPerm permission.Permission,
	resourceType string,
	resourceID uuid.UUID,
) bool {
	effective, err := s.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		s.logger.Warn(ctx, "resource permission check failed closed",
			"user_id", userID,
			"resource_type", resourceType,
			"resource_id", resourceID,
			"error", err,
		)
		return false
	}

	if effective.Has(allPerm) {
		return true
	}
	if !effective.Has(ownPerm) {
		return false
	}

	owns, err := s.ownershipRegistry.CheckOwnership(ctx, userID, resourceType, resourceID)
	if err != nil {
		s.logger.Warn(ctx, "ownership check failed closed",
			"user_id", userID,
			"resource_type", resourceType,
			"resource_id", resourceID,
			"error", err,
		)
		return false
	}
	return owns
}

// GetProfile retrieves the authorization profile for a user
func (s *AuthzService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("AuthzService.GetProfile: %w", err)
	}
	return profile, nil
}

// ListRoles returns the static role catalog, most privileged first
func (s *AuthzService) ListRoles(ctx context.Context) []*permission.RoleDefinition {
	return permission.Roles()
}

// ListPermissions returns every catalog definition grouped by resource
// ordering
func (s *AuthzService) ListPermissions(ctx context.Context) []*permission.Definition {
	all := permission.All()
	result := make([]*permission.Definition, 0, len(all))
	for _, id := range all {
		def, _ := permission.FromID(id)
		result = append(result, def)
	}
	return result
}
