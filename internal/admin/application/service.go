package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/admin/ports"
	authzdomain "github.com/harborworks/cms/internal/authz/domain"
	"github.com/harborworks/cms/internal/authz/permission"
	authzports "github.com/harborworks/cms/internal/authz/ports"
	"github.com/harborworks/cms/internal/platform/apperror"
	"github.com/harborworks/cms/internal/platform/logger"
	"github.com/harborworks/cms/internal/platform/validator"
)

// Error definitions for admin operations
var (
	ErrSuperAdminRequired = apperror.New(
		apperror.CodeForbidden,
		apperror.BusinessCodePermissionDenied,
		"super-admin privilege required",
		http.StatusForbidden,
	)
	ErrProtectedEntity = apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeProtectedEntity,
		"super-admin accounts cannot be deleted",
		http.StatusConflict,
	)
	ErrValidationFailed = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeValidationFailed,
		"validation failed",
		http.StatusBadRequest,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeDuplicateEmail,
		"email already registered",
		http.StatusConflict,
	)
	ErrUserNotFound = apperror.New(
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
	ErrInvalidAssignment = apperror.New(
		apperror.CodeBadRequest,
		apperror.BusinessCodeInvalidPermission,
		"invalid permission assignment",
		http.StatusBadRequest,
	)
)

// AdminService carries the higher-privilege management operations.
// Every operation starts by re-verifying that the caller is a
// super-admin against the profile store, never trusting a cached flag
// from the request.
type AdminService struct {
	profiles authzports.ProfileRepository
	groups   authzports.GroupRepository
	identity ports.IdentityProvider
	logger   logger.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	profiles authzports.ProfileRepository,
	groups authzports.GroupRepository,
	identity ports.IdentityProvider,
	logger logger.Logger,
) *AdminService {
	return &AdminService{
		profiles: profiles,
		groups:   groups,
		identity: identity,
		logger:   logger,
	}
}

// verifySuperAdminAccess resolves the caller and fails unless the
// profile is an active super-admin
func (s *AdminService) verifySuperAdminAccess(ctx context.Context, callerID uuid.UUID) error {
	profile, err := s.profiles.GetByUserID(ctx, callerID)
	if err != nil {
		if errors.Is(err, authzports.ErrProfileNotFound) {
			return ErrSuperAdminRequired
		}
		return s.externalFailure(ctx, "failed to resolve caller profile", err)
	}
	if !profile.IsActive {
		return ErrSuperAdminRequired
	}
	if !profile.IsSuperAdmin && profile.Role != permission.RoleSuperAdmin {
		return ErrSuperAdminRequired
	}
	return nil
}

// ===== USER MANAGEMENT =====

// CreateUserParams contains new account input. Validation runs before
// any external call.
type CreateUserParams struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,password"`
	FirstName string `validate:"required,min=2,max=100"`
	LastName  string `validate:"required,min=2,max=100"`
	Role      string `validate:"required"`
}

// CreateUser registers a login identity and provisions the matching
// authorization profile
func (s *AdminService) CreateUser(ctx context.Context, callerID uuid.UUID, params CreateUserParams) (*authzdomain.UserProfile, error) {
	if err := s.verifySuperAdminAccess(ctx, callerID); err != nil {
		return nil, err
	}

	if msgs := validator.Struct(params); msgs != nil {
		return nil, ErrValidationFailed.WithDetails(strings.Join(msgs, "; "))
	}
	role := permission.RoleID(params.Role)
	if !permission.IsValidRole(role) {
		return nil, ErrValidationFailed.WithDetails("unknown role: " + params.Role)
	}

	userID, err := s.identity.Register(ctx, params.Email, params.Password)
	if err != nil {
		if errors.Is(err, ports.ErrIdentityExists) {
			return nil, ErrEmailTaken
		}
		return nil, s.externalFailure(ctx, "failed to register identity", err)
	}

	displayName := validator.SanitizeText(params.FirstName + " " + params.LastName)
	profile, err := authzdomain.NewUserProfile(userID, params.Email, displayName, role)
	if err != nil {
		return nil, ErrValidationFailed.WithDetails(err.Error())
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		// The identity row is left in place; no automatic rollback
		s.logger.Warn(ctx, "profile creation failed after identity registration, identity orphaned",
			"user_id", userID,
			"email", params.Email,
		)
		if errors.Is(err, authzports.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, s.externalFailure(ctx, "failed to create profile", err)
	}

	s.logger.Info(ctx, "user created",
		"user_id", profile.UserID,
		"role", profile.Role,
		"created_by", callerID,
	)
	return profile, nil
}

// ChangeUserRole moves a user to a different role
func (s *AdminService) ChangeUserRole(ctx context.Context, callerID, userID uuid.UUID, role permission.RoleID) (*authzdomain.UserProfile, error) {
	if err := s.verifySuperAdminAccess(ctx, callerID); err != nil {
		return nil, err
	}

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := profile.ChangeRole(role); err != nil {
		return nil, ErrValidationFailed.WithDetails(err.Error())
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, s.externalFailure(ctx, "failed to update profile", err)
	}
	return profile, nil
}

// DeleteUser soft-deletes a profile and disables its sign-in. Deleting
// a super-admin is a protected failure and leaves the account intact.
func (s *AdminService) DeleteUser(ctx context.Context, callerID, userID uuid.UUID) error {
	if err := s.verifySuperAdminAccess(ctx, callerID); err != nil {
		return err
	}

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile.IsSuperAdmin || profile.Role == permission.RoleSuperAdmin {
		return ErrProtectedEntity
	}

	profile.Deactivate()
	if err := s.profiles.Update(ctx, profile); err != nil {
		return s.externalFailure(ctx, "failed to deactivate profile", err)
	}
	if err := s.identity.Disable(ctx, userID); err != nil {
		s.logger.Error(ctx, "failed to disable identity for deactivated user",
			"error", err,
			"user_id", userID,
		)
	}

	s.logger.Info(ctx, "user deactivated", "user_id", userID, "deleted_by", callerID)
	return nil
}

// ListUsers retrieves profiles for the management screen
func (s *AdminService) ListUsers(ctx context.Context, callerID uuid.UUID, includeInactive bool, limit, offset int) ([]*authzdomain.UserProfile, error) {
	if err := s.verifySuperAdminAccess(ctx, callerID); err != nil {
		return nil, err
	}

	profiles, err := s.profiles.List(ctx, includeInactive, limit, offset)
	if err != nil {
		return nil, s.externalFailure(ctx, "failed to list profiles", err)
	}
	return profiles, nil
}

// ===== GROUP MANAGEMENT =====

// CreateGroupParams contains new group input
type CreateGroupParams struct {
	Name        string   `validate:"required,min=3,max=100"`
	Description string   `validate:"required,min=10,max=500"`
	Permissions []string `validate:"required,min=1"`
}

// CreateGroup provisions a permission group with its initial bundle
func (s *AdminService) CreateGroup(ctx context.Context, callerID uuid.UUID, params CreateGroupParams) (*authzdomain.PermissionGroup, error) {
	if err := s.verifySuperAdminAccess(ctx, callerID); err != nil {
		return nil, err
	}

	if msgs := validator.Struct(params); msgs != nil {
		return nil, ErrValidationFailed.WithDetails(strings.Join(msgs, "; "))
	}
	perms, err := parsePermissionTokens(params.Permissions)
	if err != nil {
		return nil, err
	}

	group := authzdomain.NewPermissionGroup(validator.SanitizeText(params.Name), validator.SanitizeText(params.Description), callerID)
	if err := group.ReplacePermissions(perms); err != nil {
		return nil, ErrInvalidAssignment.WithDetails(err.Error())
	}

	if err := s.groups.Create(ctx, group); err != nil {
		return nil, s.externalFailure(ctx, "failed to create group", err)
	}

	s.logger.Info(ctx, "permission group created", "group_id", group.ID, "created_by", callerID)
	return group, nil
}

// DeleteGroup soft-deletes a group; members keep their memberships but
// the group stops contributing permissions
func (s *AdminService) DeleteGroup(ctx context.Context, callerID, groupID uuid.UUID) error {
	if err := s.verifySuperAdminAccess(ctx, callerID); err != nil {
		return err
	}

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	group.Deactivate()
	if err := s.groups.Update(ctx, group); err != nil {
		return s.externalFailure(ctx, "failed to deactivate group", err)
	}
	return nil
}

// AddGroupMember records a user's membership in a group
func (s *AdminService) AddGroupMember(ctx context.Context, callerID, groupID, userID uuid.UUID) error {
	if err := s.verifySuperAdminAccess(ctx, callerID); err != nil {
		return err
	}

	if _, err := s.getGroup(ctx, groupID); err != nil {
		return err
	}
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := profile.JoinGroup(groupID); err != nil {
		// Already a member: idempotent
		if errors.Is(err, authzdomain.ErrAlreadyGroupMember) {
			return nil
		}
		return ErrInvalidAssignment.WithDetails(err.Error())
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return s.externalFailure(ctx, "failed to update profile", err)
	}
	return nil
}

// RemoveGroupMember drops a user's membership in a group
func (s *AdminService) RemoveGroupMember(ctx context.Context, callerID, groupID, userID uuid.UUID) error {
	if err := s.verifySuperAdminAccess(ctx, callerID); err != nil {
		return err
	}

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := profile.LeaveGroup(groupID); err != nil {
		if errors.Is(err, authzdomain.ErrNotGroupMember) {
			return nil
		}
		return ErrInvalidAssignment.WithDetails(err.Error())
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return s.externalFailure(ctx, "failed to update profile", err)
	}
	return nil
}

// ===== PERMISSION ASSIGNMENT =====

// AssignmentAction selects how AssignPermissions combines the listed
// permissions with the existing set
type AssignmentAction string

const (
	AssignmentAdd     AssignmentAction = "add"
	AssignmentRemove  AssignmentAction = "remove"
	AssignmentReplace AssignmentAction = "replace"
)

// PermissionAssignment targets exactly one of a user or a group
type PermissionAssignment struct {
	UserID      *uuid.UUID
	GroupID     *uuid.UUID
	Action      AssignmentAction
	Permissions []string
}

// AssignPermissions applies a bulk permission change to one user's
// custom grants or one group's bundle. Add unions idempotently, remove
// filters, replace discards the previous set.
func (s *AdminService) AssignPermissions(ctx context.Context, callerID uuid.UUID, assignment PermissionAssignment) error {
	if err := s.verifySuperAdminAccess(ctx, callerID); err != nil {
		return err
	}

	if (assignment.UserID == nil) == (assignment.GroupID == nil) {
		return ErrInvalidAssignment.WithDetails("exactly one of userId or groupId must be set")
	}
	switch assignment.Action {
	case AssignmentAdd, AssignmentRemove, AssignmentReplace:
	default:
		return ErrInvalidAssignment.WithDetails("action must be add, remove or replace")
	}
	perms, err := parsePermissionTokens(assignment.Permissions)
	if err != nil {
		return err
	}

	if assignment.UserID != nil {
		return s.assignToUser(ctx, *assignment.UserID, assignment.Action, perms)
	}
	return s.assignToGroup(ctx, *assignment.GroupID, assignment.Action, perms)
}

func (s *AdminService) assignToUser(ctx context.Context, userID uuid.UUID, action AssignmentAction, perms []permission.Permission) error {
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return err
	}

	switch action {
	case AssignmentAdd:
		for _, p := range perms {
			if err := profile.GrantCustomPermission(p); err != nil && !errors.Is(err, authzdomain.ErrPermissionAlreadyGranted) {
				return ErrInvalidAssignment.WithDetails(err.Error())
			}
		}
	case AssignmentRemove:
		for _, p := range perms {
			if err := profile.RevokeCustomPermission(p); err != nil && !errors.Is(err, authzdomain.ErrPermissionNotGranted) {
				return ErrInvalidAssignment.WithDetails(err.Error())
			}
		}
	case AssignmentReplace:
		profile.CustomPermissions = nil
		for _, p := range perms {
			if err := profile.GrantCustomPermission(p); err != nil {
				return ErrInvalidAssignment.WithDetails(err.Error())
			}
		}
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return s.externalFailure(ctx, "failed to update profile", err)
	}
	return nil
}

func (s *AdminService) assignToGroup(ctx context.Context, groupID uuid.UUID, action AssignmentAction, perms []permission.Permission) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	switch action {
	case AssignmentAdd:
		for _, p := range perms {
			if err := group.AddPermission(p); err != nil && !errors.Is(err, authzdomain.ErrGroupPermissionExists) {
				return ErrInvalidAssignment.WithDetails(err.Error())
			}
		}
	case AssignmentRemove:
		for _, p := range perms {
			if err := group.RemovePermission(p); err != nil && !errors.Is(err, authzdomain.ErrGroupPermissionNotFound) {
				return ErrInvalidAssignment.WithDetails(err.Error())
			}
		}
	case AssignmentReplace:
		if err := group.ReplacePermissions(perms); err != nil {
			return ErrInvalidAssignment.WithDetails(err.Error())
		}
	}

	if err := s.groups.Update(ctx, group); err != nil {
		return s.externalFailure(ctx, "failed to update group", err)
	}
	return nil
}

// ===== REPORTING AND BOOTSTRAP =====

// SystemStats is the read-only reporting aggregate
type SystemStats struct {
	TotalUsers      int
	ActiveUsers     int
	TotalGroups     int
	SuperAdminCount int64
}

// GetSystemStats aggregates counts for the admin dashboard
func (s *AdminService) GetSystemStats(ctx context.Context, callerID uuid.UUID) (*SystemStats, error) {
	if err := s.verifySuperAdminAccess(ctx, callerID); err != nil {
		return nil, err
	}

	all, err := s.profiles.List(ctx, true, 0, 0)
	if err != nil {
		return nil, s.externalFailure(ctx, "failed to list profiles", err)
	}
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, s.externalFailure(ctx, "failed to list groups", err)
	}
	superAdmins, err := s.profiles.CountActiveByRole(ctx, permission.RoleSuperAdmin)
	if err != nil {
		return nil, s.externalFailure(ctx, "failed to count super-admins", err)
	}

	stats := &SystemStats{
		TotalUsers:      len(all),
		TotalGroups:     len(groups),
		SuperAdminCount: superAdmins,
	}
	for _, p := range all {
		if p.IsActive {
			stats.ActiveUsers++
		}
	}
	return stats, nil
}

// EnsureDefaultSuperAdmin provisions the bootstrap super-admin when no
// active one exists. Idempotent: repeat calls never create a second
// account.
func (s *AdminService) EnsureDefaultSuperAdmin(ctx context.Context, email, password string) error {
	count, err := s.profiles.CountActiveByRole(ctx, permission.RoleSuperAdmin)
	if err != nil {
		return s.externalFailure(ctx, "failed to count super-admins", err)
	}
	if count > 0 {
		return nil
	}

	userID, err := s.identity.Register(ctx, email, password)
	if err != nil {
		if errors.Is(err, ports.ErrIdentityExists) {
			// A concurrent bootstrap won the race
			return nil
		}
		return s.externalFailure(ctx, "failed to register bootstrap identity", err)
	}

	profile, err := authzdomain.NewUserProfile(userID, email, "System Administrator", permission.RoleSuperAdmin)
	if err != nil {
		return s.externalFailure(ctx, "failed to build bootstrap profile", err)
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, authzports.ErrDuplicateEmail) {
			return nil
		}
		return s.externalFailure(ctx, "failed to create bootstrap profile", err)
	}

	s.logger.Info(ctx, "default super-admin provisioned", "user_id", userID)
	return nil
}

// ===== Private helpers =====

func (s *AdminService) getProfile(ctx context.Context, userID uuid.UUID) (*authzdomain.UserProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, authzports.ErrProfileNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.externalFailure(ctx, "failed to load profile", err)
	}
	return profile, nil
}

func (s *AdminService) getGroup(ctx context.Context, groupID uuid.UUID) (*authzdomain.PermissionGroup, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, authzports.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, s.externalFailure(ctx, "failed to load group", err)
	}
	return group, nil
}

func parsePermissionTokens(raw []string) ([]permission.Permission, error) {
	perms := make([]permission.Permission, 0, len(raw))
	for _, token := range raw {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			return nil, ErrInvalidAssignment.WithDetails("permission tokens must not be blank")
		}
		p := permission.Permission(trimmed)
		if !permission.IsValid(p) {
			return nil, ErrInvalidAssignment.WithDetails("unknown permission: " + trimmed)
		}
		perms = append(perms, p)
	}
	return perms, nil
}

func (s *AdminService) externalFailure(ctx context.Context, message string, inner error) *apperror.AppError {
	s.logger.Error(ctx, message, "error", inner)
	return apperror.Wrap(
		inner,
		apperror.CodeInternalError,
		apperror.BusinessCodeExternalFailure,
		fmt.Sprintf("%s: %v", message, inner),
		http.StatusInternalServerError,
	)
}
