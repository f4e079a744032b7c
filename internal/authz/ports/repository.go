package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/authz/domain"
	"github.com/harborworks/cms/internal/authz/permission"
)

// Sentinel errors returned by repository implementations
var (
	ErrProfileNotFound = errors.New("user profile not found")
	ErrGroupNotFound   = errors.New("permission group not found")
	ErrDuplicateEmail  = errors.New("email already registered")
)

// ProfileRepository persists authorization profiles. Permissions and
// roles themselves are static configuration and never stored; only the
// per-user role choice, custom grants and group memberships are.
type ProfileRepository interface {
	// GetByUserID retrieves a profile, active or not
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)

	// GetByEmail retrieves a profile by its unique email
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)

	// List retrieves profiles ordered by creation time, newest first
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]*domain.UserProfile, error)

	// ListByRole retrieves all profiles holding a role
	ListByRole(ctx context.Context, role permission.RoleID) ([]*domain.UserProfile, error)

	// Create persists a new profile; fails with ErrDuplicateEmail when
	// the email is taken
	Create(ctx context.Context, profile *domain.UserProfile) error

	// Update persists role, custom grants, group memberships and the
	// active flag
	Update(ctx context.Context, profile *domain.UserProfile) error

	// CountActiveByRole counts active profiles holding a role
	CountActiveByRole(ctx context.Context, role permission.RoleID) (int64, error)
}

// GroupRepository persists permission groups
type GroupRepository interface {
	// GetByID retrieves a group with its permission bundle
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PermissionGroup, error)

	// GetByIDs retrieves several groups at once; missing IDs are
	// silently skipped so stale memberships never break resolution
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.PermissionGroup, error)

	// List retrieves all groups ordered by name
	List(ctx context.Context) ([]*domain.PermissionGroup, error)

	// Create persists a new group
	Create(ctx context.Context, group *domain.PermissionGroup) error

	// Update persists name, description and the permission bundle
	Update(ctx context.Context, group *domain.PermissionGroup) error

	// Delete removes a group; memberships referencing it become inert
	Delete(ctx context.Context, id uuid.UUID) error
}
