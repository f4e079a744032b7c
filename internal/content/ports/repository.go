package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harborworks/cms/internal/content/domain"
)

// Repository errors - these are the canonical errors that repository
// implementations should return. The PostgreSQL implementation
// translates pgx.ErrNoRows and conditional-update misses to these.
var (
	// ErrContentNotFound is returned when a content item cannot be found
	ErrContentNotFound = errors.New("content item not found")

	// ErrStatusConflict is returned when a conditional status update
	// finds the item no longer in the expected source state. This is
	// how the loser of a concurrent-transition race surfaces.
	ErrStatusConflict = errors.New("content status changed concurrently")

	// ErrDuplicateSlug is returned when a slug is already in use
	ErrDuplicateSlug = errors.New("slug already in use")
)

// ContentSummary is a lightweight DTO for dashboard and list views
type ContentSummary struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Summary     string
	AuthorID    uuid.UUID
	Status      domain.ContentStatus
	Stage       domain.WorkflowStage
	AssignedTo  *uuid.UUID
	Priority    domain.Priority
	DueDate     *time.Time
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListFilter narrows content list queries
type ListFilter struct {
	Status     *domain.ContentStatus
	Stage      *domain.WorkflowStage
	AuthorID   *uuid.UUID
	AssignedTo *uuid.UUID
	Limit      int
	Offset     int
}

// ContentRepository defines the interface for content persistence
type ContentRepository interface {
	// Create saves a new content item
	Create(ctx context.Context, item *domain.ContentItem) error

	// FindByID retrieves a full content item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)

	// FindBySlug retrieves a full content item by its slug
	FindBySlug(ctx context.Context, slug string) (*domain.ContentItem, error)

	// Update persists body fields and non-workflow metadata
	Update(ctx context.Context, item *domain.ContentItem) error

	// UpdateStatusConditional persists the item's workflow fields with
	// a predicate on the previous status: the write applies only where
	// the stored status still equals expectedStatus. Returns
	// ErrStatusConflict when the predicate misses, so concurrent
	// conflicting transitions cannot both win.
	UpdateStatusConditional(ctx context.Context, item *domain.ContentItem, expectedStatus domain.ContentStatus) error

	// Delete removes a content item
	Delete(ctx context.Context, id uuid.UUID) error

	// ListSummaries retrieves summaries for list and dashboard views
	ListSummaries(ctx context.Context, filter ListFilter) ([]*ContentSummary, error)

	// Count returns the number of items matching the filter
	Count(ctx context.Context, filter ListFilter) (int, error)

	// SlugExists checks if a slug is already in use, optionally
	// excluding one item (for updates)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)

	// IsOwner reports whether the user authored the content item
	IsOwner(ctx context.Context, contentID, userID uuid.UUID) (bool, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx pgx.Tx) ContentRepository
}

// AuditWriter appends workflow audit entries. Append-only: there is no
// update or delete on purpose.
type AuditWriter interface {
	// Append persists one audit entry
	Append(ctx context.Context, entry *domain.AuditEntry) error

	// ListByContent retrieves the audit trail for one item, oldest first
	ListByContent(ctx context.Context, contentID uuid.UUID) ([]*domain.AuditEntry, error)
}

// AssignmentRepository persists reviewer/publisher assignments
type AssignmentRepository interface {
	// Create persists an assignment record
	Create(ctx context.Context, assignment *domain.Assignment) error

	// ListByContent retrieves assignments for one item, newest first
	ListByContent(ctx context.Context, contentID uuid.UUID) ([]*domain.Assignment, error)

	// ListByAssignee retrieves a user's open assignments
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Assignment, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx pgx.Tx) AssignmentRepository
}
