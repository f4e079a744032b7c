package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborworks/cms/internal/authz/permission"
)

func newTestProfile(t *testing.T, role permission.RoleID) *UserProfile {
	t.Helper()
	profile, err := NewUserProfile(uuid.New(), "writer@example.org", "Writer", role)
	require.NoError(t, err)
	return profile
}

func TestNewUserProfileRejectsUnknownRole(t *testing.T) {
	_, err := NewUserProfile(uuid.New(), "x@example.org", "X", "warlord")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestNewUserProfileSuperAdminFlag(t *testing.T) {
	admin := newTestProfile(t, permission.RoleSuperAdmin)
	assert.True(t, admin.IsSuperAdmin)

	author := newTestProfile(t, permission.RoleAuthor)
	assert.False(t, author.IsSuperAdmin)
}

func TestChangeRole(t *testing.T) {
	profile := newTestProfile(t, permission.RoleAuthor)

	require.NoError(t, profile.ChangeRole(permission.RoleSuperAdmin))
	assert.True(t, profile.IsSuperAdmin)

	require.NoError(t, profile.ChangeRole(permission.RoleEditor))
	assert.False(t, profile.IsSuperAdmin)

	assert.ErrorIs(t, profile.ChangeRole("warlord"), ErrUnknownRole)
	assert.Equal(t, permission.RoleEditor, profile.Role)
}

func TestGrantAndRevokeCustomPermission(t *testing.T) {
	profile := newTestProfile(t, permission.RoleAuthor)

	require.NoError(t, profile.GrantCustomPermission(permission.ContentPublish))
	assert.True(t, profile.HasCustomPermission(permission.ContentPublish))

	assert.ErrorIs(t, profile.GrantCustomPermission(permission.ContentPublish), ErrPermissionAlreadyGranted)
	assert.ErrorIs(t, profile.GrantCustomPermission("content.teleport"), ErrInvalidPermission)

	require.NoError(t, profile.RevokeCustomPermission(permission.ContentPublish))
	assert.False(t, profile.HasCustomPermission(permission.ContentPublish))
	assert.ErrorIs(t, profile.RevokeCustomPermission(permission.ContentPublish), ErrPermissionNotGranted)
}

func TestGroupMembership(t *testing.T) {
	profile := newTestProfile(t, permission.RoleAuthor)
	groupID := uuid.New()

	require.NoError(t, profile.JoinGroup(groupID))
	assert.True(t, profile.IsMemberOf(groupID))
	assert.ErrorIs(t, profile.JoinGroup(groupID), ErrAlreadyGroupMember)

	require.NoError(t, profile.LeaveGroup(groupID))
	assert.False(t, profile.IsMemberOf(groupID))
	assert.ErrorIs(t, profile.LeaveGroup(groupID), ErrNotGroupMember)
}

func TestBasePermissionsFollowsRole(t *testing.T) {
	profile := newTestProfile(t, permission.RoleAuthor)
	base := profile.BasePermissions()

	assert.True(t, base.Has(permission.ContentCreate))
	assert.True(t, base.Has(permission.ContentEditOwn))
	assert.False(t, base.Has(permission.ContentPublish))
	assert.False(t, base.IsUniversal())
}

func TestBasePermissionsIncludesCustomGrants(t *testing.T) {
	profile := newTestProfile(t, permission.RoleContributor)
	require.NoError(t, profile.GrantCustomPermission(permission.MediaUpload))

	base := profile.BasePermissions()
	assert.True(t, base.Has(permission.MediaUpload))
	assert.True(t, base.Has(permission.ContentCreate))
}

func TestBasePermissionsSuperAdminUniversal(t *testing.T) {
	profile := newTestProfile(t, permission.RoleSuperAdmin)
	assert.True(t, profile.BasePermissions().IsUniversal())
}

func TestDeactivatedProfileResolvesEmpty(t *testing.T) {
	profile := newTestProfile(t, permission.RoleSuperAdmin)
	profile.Deactivate()

	assert.False(t, profile.IsActive)
	assert.Equal(t, 0, profile.BasePermissions().Len())

	profile.Reactivate()
	assert.True(t, profile.IsActive)
	assert.True(t, profile.BasePermissions().IsUniversal())
}
