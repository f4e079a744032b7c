package postgres

import (
	"github.com/google/wire"

	authzports "github.com/harborworks/cms/internal/authz/ports"
	contentports "github.com/harborworks/cms/internal/content/ports"
)

// ProviderSet is the wire provider set for postgres repositories
var ProviderSet = wire.NewSet(
	NewProfilesRepository,
	wire.Bind(new(authzports.ProfileRepository), new(*ProfilesRepository)),
	NewGroupsRepository,
	wire.Bind(new(authzports.GroupRepository), new(*GroupsRepository)),
	NewContentRepository,
	wire.Bind(new(contentports.ContentRepository), new(*ContentRepository)),
	NewAuditRepository,
	wire.Bind(new(contentports.AuditWriter), new(*AuditRepository)),
	NewAssignmentsRepository,
	wire.Bind(new(contentports.AssignmentRepository), new(*AssignmentsRepository)),
)
