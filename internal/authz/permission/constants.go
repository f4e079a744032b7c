package permission

import (
	"sort"
	"strings"
)

// Permission is an atomic authorization token gating one action,
// namespaced as "<domain>.<action>". The catalog below is closed:
// tokens are defined here at compile time and never minted at runtime.
type Permission string

// Definition carries the structured metadata for a catalog entry
type Definition struct {
	ID          Permission // The permission identifier (e.g., "content.publish")
	Resource    string     // The resource being accessed (e.g., "content")
	Action      string     // The action being performed (e.g., "publish")
	Description string     // Human-readable description
}

// Permission constants
const (
	// Content permissions
	ContentCreate        Permission = "content.create"
	ContentEditOwn       Permission = "content.edit_own"
	ContentEditAll       Permission = "content.edit_all"
	ContentDeleteOwn     Permission = "content.delete_own"
	ContentDeleteAll     Permission = "content.delete_all"
	ContentSubmitReview  Permission = "content.submit_review"
	ContentApproveReview Permission = "content.approve_review"
	ContentPublish       Permission = "content.publish"
	ContentUnpublish     Permission = "content.unpublish"

	// Media library permissions
	MediaUpload    Permission = "media.upload"
	MediaManageAll Permission = "media.manage_all"

	// User management permissions
	UsersView      Permission = "users.view"
	UsersManageAll Permission = "users.manage_all"

	// Permission group management
	GroupsManage Permission = "groups.manage"

	// Role assignment
	RolesAssign Permission = "roles.assign"

	// Audit log access
	AuditView Permission = "audit.view"

	// Site settings
	SettingsManage Permission = "settings.manage"

	// Reporting
	StatsView Permission = "stats.view"
)

// registry holds all structured Definition objects
var registry = map[Permission]*Definition{
	ContentCreate:        {ID: ContentCreate, Resource: "content", Action: "create", Description: "Create new content items"},
	ContentEditOwn:       {ID: ContentEditOwn, Resource: "content", Action: "edit_own", Description: "Edit own content items"},
	ContentEditAll:       {ID: ContentEditAll, Resource: "content", Action: "edit_all", Description: "Edit any content item"},
	ContentDeleteOwn:     {ID: ContentDeleteOwn, Resource: "content", Action: "delete_own", Description: "Delete own content items"},
	ContentDeleteAll:     {ID: ContentDeleteAll, Resource: "content", Action: "delete_all", Description: "Delete any content item"},
	ContentSubmitReview:  {ID: ContentSubmitReview, Resource: "content", Action: "submit_review", Description: "Submit content for editorial review"},
	ContentApproveReview: {ID: ContentApproveReview, Resource: "content", Action: "approve_review", Description: "Approve or reject content under review"},
	ContentPublish:       {ID: ContentPublish, Resource: "content", Action: "publish", Description: "Publish reviewed content"},
	ContentUnpublish:     {ID: ContentUnpublish, Resource: "content", Action: "unpublish", Description: "Take published content offline"},

	MediaUpload:    {ID: MediaUpload, Resource: "media", Action: "upload", Description: "Upload files to the media library"},
	MediaManageAll: {ID: MediaManageAll, Resource: "media", Action: "manage_all", Description: "Manage any media library file"},

	UsersView:      {ID: UsersView, Resource: "users", Action: "view", Description: "View user profiles"},
	UsersManageAll: {ID: UsersManageAll, Resource: "users", Action: "manage_all", Description: "Create, update and deactivate users"},

	GroupsManage: {ID: GroupsManage, Resource: "groups", Action: "manage", Description: "Manage permission groups"},

	RolesAssign: {ID: RolesAssign, Resource: "roles", Action: "assign", Description: "Assign roles to users"},

	AuditView: {ID: AuditView, Resource: "audit", Action: "view", Description: "View workflow audit logs"},

	SettingsManage: {ID: SettingsManage, Resource: "settings", Action: "manage", Description: "Manage site settings"},

	StatsView: {ID: StatsView, Resource: "stats", Action: "view", Description: "View system statistics"},
}

// FromID looks up a permission by its token and returns the structured Definition
func FromID(id Permission) (*Definition, bool) {
	def, exists := registry[id]
	return def, exists
}

// IsValid checks if a permission token exists in the catalog
func IsValid(id Permission) bool {
	_, exists := registry[id]
	return exists
}

// All returns every permission token in the catalog, sorted for stable output
func All() []Permission {
	result := make([]Permission, 0, len(registry))
	for id := range registry {
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// ByResource returns all definitions for a specific resource
func ByResource(resource string) []*Definition {
	var result []*Definition
	for _, def := range registry {
		if def.Resource == resource {
			result = append(result, def)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Parse splits a permission token into its resource and action parts.
// Returns empty strings for a malformed token.
func Parse(id Permission) (resource, action string) {
	parts := strings.SplitN(string(id), ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", ""
	}
	return parts[0], parts[1]
}

// Count returns the size of the catalog
func Count() int {
	return len(registry)
}
