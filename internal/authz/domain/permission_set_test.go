package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harborworks/cms/internal/authz/permission"
)

func TestPermissionSetHas(t *testing.T) {
	set := NewPermissionSet(permission.ContentCreate, permission.ContentEditOwn)

	assert.True(t, set.Has(permission.ContentCreate))
	assert.True(t, set.Has(permission.ContentEditOwn))
	assert.False(t, set.Has(permission.ContentPublish))
	assert.False(t, set.IsUniversal())
}

func TestPermissionSetDeduplicates(t *testing.T) {
	set := NewPermissionSet(permission.ContentCreate, permission.ContentCreate, permission.ContentCreate)
	assert.Equal(t, 1, set.Len())
}

func TestUniversalSetCoversCatalogOnly(t *testing.T) {
	set := NewUniversalSet()

	assert.True(t, set.IsUniversal())
	for _, p := range permission.All() {
		assert.True(t, set.Has(p), "universal set must grant %s", p)
	}
	// Unknown tokens stay ungranted even for the universal set
	assert.False(t, set.Has("content.teleport"))
	assert.Equal(t, permission.Count(), set.Len())
}

func TestPermissionSetHasAnyHasAll(t *testing.T) {
	set := NewPermissionSet(permission.ContentCreate, permission.MediaUpload)

	assert.True(t, set.HasAny(permission.ContentPublish, permission.MediaUpload))
	assert.False(t, set.HasAny(permission.ContentPublish, permission.AuditView))

	assert.True(t, set.HasAll(permission.ContentCreate, permission.MediaUpload))
	assert.False(t, set.HasAll(permission.ContentCreate, permission.ContentPublish))

	// Vacuous truth on empty argument lists
	assert.True(t, set.HasAll())
	assert.False(t, set.HasAny())
}

func TestPermissionSetUnion(t *testing.T) {
	a := NewPermissionSet(permission.ContentCreate)
	b := NewPermissionSet(permission.ContentCreate, permission.MediaUpload)

	merged := a.Union(b)
	assert.Equal(t, 2, merged.Len())
	assert.True(t, merged.Has(permission.ContentCreate))
	assert.True(t, merged.Has(permission.MediaUpload))

	// Operands are untouched
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestPermissionSetUnionWithUniversal(t *testing.T) {
	explicit := NewPermissionSet(permission.ContentCreate)

	assert.True(t, explicit.Union(NewUniversalSet()).IsUniversal())
	assert.True(t, NewUniversalSet().Union(explicit).IsUniversal())
}

func TestPermissionSetUnionNil(t *testing.T) {
	set := NewPermissionSet(permission.ContentCreate)
	merged := set.Union(nil)
	assert.Equal(t, 1, merged.Len())
}

func TestPermissionSetAddReturnsNewSet(t *testing.T) {
	original := NewPermissionSet(permission.ContentCreate)
	extended := original.Add(permission.MediaUpload)

	assert.Equal(t, 1, original.Len())
	assert.Equal(t, 2, extended.Len())
}

func TestPermissionSetTokensSorted(t *testing.T) {
	set := NewPermissionSet(permission.UsersView, permission.AuditView, permission.ContentCreate)
	tokens := set.Tokens()

	assert.Equal(t, []permission.Permission{
		permission.AuditView,
		permission.ContentCreate,
		permission.UsersView,
	}, tokens)
}
