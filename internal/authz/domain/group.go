package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/authz/permission"
)

// Error definitions for permission group operations
var (
	ErrGroupPermissionExists   = errors.New("permission already in group")
	ErrGroupPermissionNotFound = errors.New("permission not in group")
)

// PermissionGroup bundles extra permissions that members receive on top
// of their role. Groups only ever widen a grant; removing a member
// never touches the member's role or custom permissions.
type PermissionGroup struct {
	ID          uuid.UUID
	Name        string
	Description string
	Permissions []permission.Permission
	IsActive    bool
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPermissionGroup creates an empty active group recording who
// provisioned it
func NewPermissionGroup(name, description string, createdBy uuid.UUID) *PermissionGroup {
	now := time.Now()
	return &PermissionGroup{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Permissions: make([]permission.Permission, 0),
		IsActive:    true,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Deactivate soft-deletes the group. An inactive group stops
// contributing to permission resolution but its record survives.
func (g *PermissionGroup) Deactivate() {
	g.IsActive = false
	g.UpdatedAt = time.Now()
}

// Reactivate restores a deactivated group
func (g *PermissionGroup) Reactivate() {
	g.IsActive = true
	g.UpdatedAt = time.Now()
}

// AddPermission includes a catalog permission in the group's bundle
func (g *PermissionGroup) AddPermission(p permission.Permission) error {
	if !permission.IsValid(p) {
		return ErrInvalidPermission
	}
	for _, existing := range g.Permissions {
		if existing == p {
			return ErrGroupPermissionExists
		}
	}
	g.Permissions = append(g.Permissions, p)
	g.UpdatedAt = time.Now()
	return nil
}

// RemovePermission drops a permission from the group's bundle
func (g *PermissionGroup) RemovePermission(p permission.Permission) error {
	for i, existing := range g.Permissions {
		if existing == p {
			g.Permissions = append(g.Permissions[:i], g.Permissions[i+1:]...)
			g.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrGroupPermissionNotFound
}

// ReplacePermissions swaps the whole bundle. Every token must be a
// catalog entry; on any invalid token nothing changes.
func (g *PermissionGroup) ReplacePermissions(perms []permission.Permission) error {
	for _, p := range perms {
		if !permission.IsValid(p) {
			return ErrInvalidPermission
		}
	}
	replacement := make([]permission.Permission, len(perms))
	copy(replacement, perms)
	g.Permissions = replacement
	g.UpdatedAt = time.Now()
	return nil
}

// Grants checks whether the group's bundle includes a permission
func (g *PermissionGroup) Grants(p permission.Permission) bool {
	for _, existing := range g.Permissions {
		if existing == p {
			return true
		}
	}
	return false
}

// PermissionSet returns the bundle as a resolvable set
func (g *PermissionGroup) PermissionSet() *PermissionSet {
	return NewPermissionSet(g.Permissions...)
}
