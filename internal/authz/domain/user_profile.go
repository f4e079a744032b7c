package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/authz/permission"
)

// Error definitions for user profile operations
var (
	ErrUnknownRole             = errors.New("unknown role")
	ErrInvalidPermission       = errors.New("permission not in catalog")
	ErrPermissionAlreadyGranted = errors.New("user already holds this custom permission")
	ErrPermissionNotGranted    = errors.New("user does not hold this custom permission")
	ErrAlreadyGroupMember      = errors.New("user is already a member of this group")
	ErrNotGroupMember          = errors.New("user is not a member of this group")
	ErrProfileInactive         = errors.New("user profile is deactivated")
)

// UserProfile is the authorization-facing view of a user: one fixed
// role, optional custom permission grants on top of it, and membership
// in permission groups. Identity (credentials, sessions) lives with the
// identity provider; this object only carries what permission
// resolution needs.
type UserProfile struct {
	UserID            uuid.UUID
	Email             string
	DisplayName       string
	Role              permission.RoleID
	IsSuperAdmin      bool
	CustomPermissions []permission.Permission
	GroupIDs          []uuid.UUID
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewUserProfile creates an active profile with the given role and no
// custom grants
func NewUserProfile(userID uuid.UUID, email, displayName string, role permission.RoleID) (*UserProfile, error) {
	if !permission.IsValidRole(role) {
		return nil, ErrUnknownRole
	}
	now := time.Now()
	return &UserProfile{
		UserID:            userID,
		Email:             email,
		DisplayName:       displayName,
		Role:              role,
		IsSuperAdmin:      role == permission.RoleSuperAdmin,
		CustomPermissions: make([]permission.Permission, 0),
		GroupIDs:          make([]uuid.UUID, 0),
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ===== COMMAND OPERATIONS =====

// ChangeRole moves the user to a different role. Super-admin status
// follows the role.
func (u *UserProfile) ChangeRole(role permission.RoleID) error {
	if !permission.IsValidRole(role) {
		return ErrUnknownRole
	}
	u.Role = role
	u.IsSuperAdmin = role == permission.RoleSuperAdmin
	u.UpdatedAt = time.Now()
	return nil
}

// GrantCustomPermission adds a direct permission on top of the role
func (u *UserProfile) GrantCustomPermission(p permission.Permission) error {
	if !permission.IsValid(p) {
		return ErrInvalidPermission
	}
	for _, existing := range u.CustomPermissions {
		if existing == p {
			return ErrPermissionAlreadyGranted
		}
	}
	u.CustomPermissions = append(u.CustomPermissions, p)
	u.UpdatedAt = time.Now()
	return nil
}

// RevokeCustomPermission removes a direct permission. Role-derived
// permissions are untouched; only direct grants can be revoked here.
func (u *UserProfile) RevokeCustomPermission(p permission.Permission) error {
	for i, existing := range u.CustomPermissions {
		if existing == p {
			u.CustomPermissions = append(u.CustomPermissions[:i], u.CustomPermissions[i+1:]...)
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrPermissionNotGranted
}

// JoinGroup records membership in a permission group
func (u *UserProfile) JoinGroup(groupID uuid.UUID) error {
	for _, existing := range u.GroupIDs {
		if existing == groupID {
			return ErrAlreadyGroupMember
		}
	}
	u.GroupIDs = append(u.GroupIDs, groupID)
	u.UpdatedAt = time.Now()
	return nil
}

// LeaveGroup removes membership in a permission group
func (u *UserProfile) LeaveGroup(groupID uuid.UUID) error {
	for i, existing := range u.GroupIDs {
		if existing == groupID {
			u.GroupIDs = append(u.GroupIDs[:i], u.GroupIDs[i+1:]...)
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotGroupMember
}

// Deactivate soft-deletes the profile. A deactivated user resolves to
// an empty permission set.
func (u *UserProfile) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
}

// Reactivate restores a deactivated profile
func (u *UserProfile) Reactivate() {
	u.IsActive = true
	u.UpdatedAt = time.Now()
}

// ===== QUERY OPERATIONS =====

// BasePermissions resolves the role-derived grant plus direct custom
// grants, before group contributions are merged in. Super-admins get
// the universal set; deactivated users get nothing.
func (u *UserProfile) BasePermissions() *PermissionSet {
	if !u.IsActive {
		return NewPermissionSet()
	}
	if u.IsSuperAdmin {
		return NewUniversalSet()
	}
	rolePerms, ok := permission.RolePermissions(u.Role)
	if !ok {
		rolePerms = nil
	}
	return NewPermissionSet(rolePerms...).Add(u.CustomPermissions...)
}

// HasCustomPermission checks a direct grant without role resolution
func (u *UserProfile) HasCustomPermission(p permission.Permission) bool {
	for _, existing := range u.CustomPermissions {
		if existing == p {
			return true
		}
	}
	return false
}

// IsMemberOf checks membership in a permission group
func (u *UserProfile) IsMemberOf(groupID uuid.UUID) bool {
	for _, existing := range u.GroupIDs {
		if existing == groupID {
			return true
		}
	}
	return false
}
