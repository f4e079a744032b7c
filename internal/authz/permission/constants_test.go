package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsConsistent(t *testing.T) {
	for id, def := range registry {
		assert.Equal(t, id, def.ID, "registry key must match definition ID")

		resource, action := Parse(id)
		assert.Equal(t, def.Resource, resource, "resource part of %s", id)
		assert.Equal(t, def.Action, action, "action part of %s", id)
		assert.NotEmpty(t, def.Description, "description of %s", id)
	}
}

func TestFromID(t *testing.T) {
	def, ok := FromID(ContentPublish)
	require.True(t, ok)
	assert.Equal(t, "content", def.Resource)
	assert.Equal(t, "publish", def.Action)

	_, ok = FromID("content.fly")
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(UsersManageAll))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("users"))
	assert.False(t, IsValid("users.manage_all.extra"))
}

func TestAllIsSortedAndComplete(t *testing.T) {
	all := All()
	assert.Len(t, all, Count())
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1] < all[i], "All() must be sorted")
	}
}

func TestByResource(t *testing.T) {
	content := ByResource("content")
	assert.Len(t, content, 9)
	for _, def := range content {
		assert.Equal(t, "content", def.Resource)
	}

	assert.Empty(t, ByResource("nonexistent"))
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []Permission{"", "content", ".publish", "content."} {
		resource, action := Parse(raw)
		assert.Empty(t, resource, "token %q", raw)
		assert.Empty(t, action, "token %q", raw)
	}
}

func TestRolePermissionsAreCatalogEntries(t *testing.T) {
	for _, role := range Roles() {
		perms, ok := RolePermissions(role.ID)
		require.True(t, ok)
		for _, p := range perms {
			assert.True(t, IsValid(p), "role %s declares unknown permission %s", role.ID, p)
		}
	}
}

func TestSuperAdminCoversWholeCatalog(t *testing.T) {
	perms, ok := RolePermissions(RoleSuperAdmin)
	require.True(t, ok)
	assert.Len(t, perms, Count())
}

func TestRoleHierarchyOrder(t *testing.T) {
	roles := Roles()
	require.Len(t, roles, 6)
	assert.Equal(t, RoleSuperAdmin, roles[0].ID)
	assert.Equal(t, RoleSubscriber, roles[5].ID)

	_, ok := RoleByID("manager")
	assert.False(t, ok)
	assert.False(t, IsValidRole("manager"))
	assert.True(t, IsValidRole(RoleEditor))
}

func TestRolePermissionsReturnsCopy(t *testing.T) {
	first, _ := RolePermissions(RoleAuthor)
	first[0] = "tampered.token"

	second, _ := RolePermissions(RoleAuthor)
	assert.NotEqual(t, Permission("tampered.token"), second[0])
}
