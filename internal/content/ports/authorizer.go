package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/authz/permission"
)

// Authorizer is the content module's view of the authorization
// service. Implementations fail closed: any resolution error reads as
// a deny.
type Authorizer interface {
	// Can checks a single permission for a user
	Can(ctx context.Context, userID uuid.UUID, p permission.Permission) bool

	// CanForResource checks an all/own permission pair against a
	// concrete resource, consulting ownership for the own-scoped half
	CanForResource(ctx context.Context, userID uuid.UUID, allPerm, ownPerm permission.Permission, resourceType string, resourceID uuid.UUID) bool
}

// ActorDirectory resolves actor display identity for audit entries
type ActorDirectory interface {
	// DisplayName returns a human-readable identity for a user, used
	// only for audit display; falls back to the raw ID on lookup
	// failure
	DisplayName(ctx context.Context, userID uuid.UUID) string
}
