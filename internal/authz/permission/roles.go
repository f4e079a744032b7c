package permission

import "sort"

// RoleID names one of the fixed, statically configured roles.
// Roles form a closed hierarchy; they are never created at runtime.
type RoleID string

const (
	RoleSuperAdmin  RoleID = "super-admin"
	RoleAdmin       RoleID = "admin"
	RoleEditor      RoleID = "editor"
	RoleAuthor      RoleID = "author"
	RoleContributor RoleID = "contributor"
	RoleSubscriber  RoleID = "subscriber"
)

// RoleDefinition describes a fixed role and the permissions it bundles.
// AllPermissions marks the super-admin, whose grant covers every catalog
// entry (including any added later) without enumerating tokens.
type RoleDefinition struct {
	ID             RoleID
	Name           string
	Description    string
	OrderIndex     int // lower index means more privileged
	AllPermissions bool
	Permissions    []Permission
}

var roleRegistry = map[RoleID]*RoleDefinition{
	RoleSuperAdmin: {
		ID:             RoleSuperAdmin,
		Name:           "Super Administrator",
		Description:    "Full system access, including settings and user management",
		OrderIndex:     0,
		AllPermissions: true,
	},
	RoleAdmin: {
		ID:          RoleAdmin,
		Name:        "Administrator",
		Description: "Manages users, content and the editorial workflow",
		OrderIndex:  1,
		Permissions: []Permission{
			ContentCreate, ContentEditOwn, ContentEditAll,
			ContentDeleteOwn, ContentDeleteAll,
			ContentSubmitReview, ContentApproveReview,
			ContentPublish, ContentUnpublish,
			MediaUpload, MediaManageAll,
			UsersView, UsersManageAll,
			GroupsManage, RolesAssign,
			AuditView, StatsView,
		},
	},
	RoleEditor: {
		ID:          RoleEditor,
		Name:        "Editor",
		Description: "Reviews, approves and publishes content from any author",
		OrderIndex:  2,
		Permissions: []Permission{
			ContentCreate, ContentEditOwn, ContentEditAll,
			ContentDeleteOwn, ContentDeleteAll,
			ContentSubmitReview, ContentApproveReview,
			ContentPublish, ContentUnpublish,
			MediaUpload, MediaManageAll,
			UsersView,
		},
	},
	RoleAuthor: {
		ID:          RoleAuthor,
		Name:        "Author",
		Description: "Writes and manages own content",
		OrderIndex:  3,
		Permissions: []Permission{
			ContentCreate, ContentEditOwn, ContentDeleteOwn,
			ContentSubmitReview,
			MediaUpload,
		},
	},
	RoleContributor: {
		ID:          RoleContributor,
		Name:        "Contributor",
		Description: "Drafts content for review, without media upload",
		OrderIndex:  4,
		Permissions: []Permission{
			ContentCreate, ContentEditOwn,
			ContentSubmitReview,
		},
	},
	RoleSubscriber: {
		ID:          RoleSubscriber,
		Name:        "Subscriber",
		Description: "Read-only site membership",
		OrderIndex:  5,
		Permissions: []Permission{},
	},
}

// RoleByID looks up a role definition by its identifier
func RoleByID(id RoleID) (*RoleDefinition, bool) {
	def, exists := roleRegistry[id]
	return def, exists
}

// IsValidRole checks if a role identifier exists
func IsValidRole(id RoleID) bool {
	_, exists := roleRegistry[id]
	return exists
}

// Roles returns every role definition ordered by privilege, most
// privileged first
func Roles() []*RoleDefinition {
	result := make([]*RoleDefinition, 0, len(roleRegistry))
	for _, def := range roleRegistry {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrderIndex < result[j].OrderIndex })
	return result
}

// RolePermissions returns the declared permission tokens for a role. For
// the super-admin it enumerates the whole catalog. The returned slice is
// a copy and safe to mutate.
func RolePermissions(id RoleID) ([]Permission, bool) {
	def, exists := roleRegistry[id]
	if !exists {
		return nil, false
	}
	if def.AllPermissions {
		return All(), true
	}
	result := make([]Permission, len(def.Permissions))
	copy(result, def.Permissions)
	return result, true
}
