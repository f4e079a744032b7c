package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborworks/cms/internal/content/domain"
	"github.com/harborworks/cms/internal/content/ports"
	"github.com/harborworks/cms/internal/platform/postgres"
)

var contentColumns = []string{
	"id", "title", "slug", "body", "summary", "author_id", "status",
	"initiated_by", "initiated_at", "reviewed_by", "reviewed_at",
	"published_by", "published_at", "rejected_by", "rejected_at",
	"rejection_reason", "review_notes", "assigned_to", "priority",
	"due_date", "created_at", "updated_at",
}

// ContentRepository implements ports.ContentRepository using PostgreSQL
type ContentRepository struct {
	postgres.BaseRepository
}

// NewContentRepository creates a new PostgreSQL content repository
func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// WithTx creates a new repository instance bound to the transaction
func (r *ContentRepository) WithTx(tx pgx.Tx) ports.ContentRepository {
	return &ContentRepository{
		BaseRepository: r.BaseRepository.WithTx(tx),
	}
}

// Create inserts a new content item
func (r *ContentRepository) Create(ctx context.Context, item *domain.ContentItem) error {
	query, args, err := r.SB.
		Insert("content_items").
		Columns(contentColumns...).
		Values(
			uuidParam(item.ID),
			item.Title,
			item.Slug,
			item.Body,
			item.Summary,
			uuidParam(item.AuthorID),
			string(item.Status),
			uuidPtrParam(item.InitiatedBy),
			timePtrParam(item.InitiatedAt),
			uuidPtrParam(item.ReviewedBy),
			timePtrParam(item.ReviewedAt),
			uuidPtrParam(item.PublishedBy),
			timePtrParam(item.PublishedAt),
			uuidPtrParam(item.RejectedBy),
			timePtrParam(item.RejectedAt),
			item.RejectionReason,
			item.ReviewNotes,
			uuidPtrParam(item.AssignedTo),
			string(item.Priority),
			timePtrParam(item.DueDate),
			pgtype.Timestamptz{Time: item.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: item.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("ContentRepository.Create: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "content_items_slug_key") {
			return ports.ErrDuplicateSlug
		}
		return fmt.Errorf("ContentRepository.Create: %w", err)
	}
	return nil
}

// FindByID retrieves a content item by its ID
func (r *ContentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	return r.findOne(ctx, sq.Eq{"id": uuidParam(id)}, "FindByID")
}

// FindBySlug retrieves a content item by its slug
func (r *ContentRepository) FindBySlug(ctx context.Context, slug string) (*domain.ContentItem, error) {
	return r.findOne(ctx, sq.Eq{"slug": slug}, "FindBySlug")
}

func (r *ContentRepository) findOne(ctx context.Context, where sq.Eq, op string) (*domain.ContentItem, error) {
	query, args, err := r.SB.
		Select(contentColumns...).
		From("content_items").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ContentRepository.%s: build query: %w", op, err)
	}

	item, err := scanContentItem(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrContentNotFound
		}
		return nil, fmt.Errorf("ContentRepository.%s: %w", op, err)
	}
	return item, nil
}

// Update persists body fields and non-workflow metadata
func (r *ContentRepository) Update(ctx context.Context, item *domain.ContentItem) error {
	query, args, err := r.SB.
		Update("content_items").
		Set("title", item.Title).
		Set("slug", item.Slug).
		Set("body", item.Body).
		Set("summary", item.Summary).
		Set("assigned_to", uuidPtrParam(item.AssignedTo)).
		Set("priority", string(item.Priority)).
		Set("due_date", timePtrParam(item.DueDate)).
		Set("updated_at", pgtype.Timestamptz{Time: item.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": uuidParam(item.ID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ContentRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, "content_items_slug_key") {
			return ports.ErrDuplicateSlug
		}
		return fmt.Errorf("ContentRepository.Update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrContentNotFound
	}
	return nil
}

// UpdateStatusConditional persists the workflow fields with a predicate
// on the previous status. The WHERE clause carries both the ID and the
// expected status, so the storage layer itself arbitrates concurrent
// transitions: zero rows affected means another actor moved the item
// first.
func (r *ContentRepository) UpdateStatusConditional(ctx context.Context, item *domain.ContentItem, expectedStatus domain.ContentStatus) error {
	query, args, err := r.SB.
		Update("content_items").
		Set("status", string(item.Status)).
		Set("initiated_by", uuidPtrParam(item.InitiatedBy)).
		Set("initiated_at", timePtrParam(item.InitiatedAt)).
		Set("reviewed_by", uuidPtrParam(item.ReviewedBy)).
		Set("reviewed_at", timePtrParam(item.ReviewedAt)).
		Set("published_by", uuidPtrParam(item.PublishedBy)).
		Set("published_at", timePtrParam(item.PublishedAt)).
		Set("rejected_by", uuidPtrParam(item.RejectedBy)).
		Set("rejected_at", timePtrParam(item.RejectedAt)).
		Set("rejection_reason", item.RejectionReason).
		Set("review_notes", item.ReviewNotes).
		Set("updated_at", pgtype.Timestamptz{Time: item.UpdatedAt, Valid: true}).
		Where(sq.Eq{
			"id":     uuidParam(item.ID),
			"status": string(expectedStatus),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ContentRepository.UpdateStatusConditional: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ContentRepository.UpdateStatusConditional: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Either the item is gone or its status moved under us.
		// Distinguish so callers can report the right failure.
		exists, existsErr := r.exists(ctx, item.ID)
		if existsErr != nil {
			return fmt.Errorf("ContentRepository.UpdateStatusConditional: %w", existsErr)
		}
		if !exists {
			return ports.ErrContentNotFound
		}
		return ports.ErrStatusConflict
	}
	return nil
}

// Delete removes a content item
func (r *ContentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.SB.
		Delete("content_items").
		Where(sq.Eq{"id": uuidParam(id)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ContentRepository.Delete: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ContentRepository.Delete: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrContentNotFound
	}
	return nil
}

// ListSummaries retrieves summaries for list and dashboard views
func (r *ContentRepository) ListSummaries(ctx context.Context, filter ports.ListFilter) ([]*ports.ContentSummary, error) {
	qb := r.SB.Select(
		"id", "title", "slug", "summary", "author_id", "status",
		"assigned_to", "priority", "due_date", "published_at",
		"created_at", "updated_at",
	).
		From("content_items").
		OrderBy("updated_at DESC")

	qb = applyContentFilters(qb, filter)

	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ContentRepository.ListSummaries: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ContentRepository.ListSummaries: %w", err)
	}
	defer rows.Close()

	var summaries []*ports.ContentSummary
	for rows.Next() {
		summary, err := scanContentSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ContentRepository.ListSummaries: rows error: %w", err)
	}
	return summaries, nil
}

// Count returns the number of items matching the filter
func (r *ContentRepository) Count(ctx context.Context, filter ports.ListFilter) (int, error) {
	qb := applyContentFilters(r.SB.Select("COUNT(*)").From("content_items"), filter)

	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("ContentRepository.Count: build query: %w", err)
	}

	var count int
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ContentRepository.Count: %w", err)
	}
	return count, nil
}

// SlugExists checks if a slug is already in use
func (r *ContentRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	subQuery := r.SB.Select("1").From("content_items").Where(sq.Eq{"slug": slug})
	if excludeID != nil {
		subQuery = subQuery.Where(sq.NotEq{"id": uuidParam(*excludeID)})
	}

	subQuerySQL, subQueryArgs, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("ContentRepository.SlugExists: build subquery: %w", err)
	}

	query := fmt.Sprintf("SELECT EXISTS(%s)", subQuerySQL)

	var exists bool
	if err := r.DB.QueryRow(ctx, query, subQueryArgs...).Scan(&exists); err != nil {
		return false, fmt.Errorf("ContentRepository.SlugExists: %w", err)
	}
	return exists, nil
}

// IsOwner reports whether the user authored the content item
func (r *ContentRepository) IsOwner(ctx context.Context, contentID, userID uuid.UUID) (bool, error) {
	query, args, err := r.SB.
		Select("author_id").
		From("content_items").
		Where(sq.Eq{"id": uuidParam(contentID)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("ContentRepository.IsOwner: build query: %w", err)
	}

	var authorID pgtype.UUID
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ports.ErrContentNotFound
		}
		return false, fmt.Errorf("ContentRepository.IsOwner: %w", err)
	}
	return uuid.UUID(authorID.Bytes) == userID, nil
}

// Helper methods

func (r *ContentRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM content_items WHERE id = $1)",
		uuidParam(id),
	).Scan(&exists)
	return exists, err
}

func applyContentFilters(qb sq.SelectBuilder, filter ports.ListFilter) sq.SelectBuilder {
	if filter.Status != nil {
		qb = qb.Where(sq.Eq{"status": string(*filter.Status)})
	}
	if filter.Stage != nil {
		// A stage is a projection over statuses, so filter on the
		// statuses that map to it
		var statuses []string
		for _, s := range domain.AllStatuses() {
			if s.Stage() == *filter.Stage {
				statuses = append(statuses, string(s))
			}
		}
		qb = qb.Where(sq.Eq{"status": statuses})
	}
	if filter.AuthorID != nil {
		qb = qb.Where(sq.Eq{"author_id": uuidParam(*filter.AuthorID)})
	}
	if filter.AssignedTo != nil {
		qb = qb.Where(sq.Eq{"assigned_to": uuidParam(*filter.AssignedTo)})
	}
	return qb
}

func scanContentItem(row pgx.Row) (*domain.ContentItem, error) {
	var item domain.ContentItem
	var idBytes, authorIDBytes pgtype.UUID
	var initiatedBy, reviewedBy, publishedBy, rejectedBy, assignedTo pgtype.UUID
	var initiatedAt, reviewedAt, publishedAt, rejectedAt, dueDate pgtype.Timestamptz
	var statusStr, priorityStr string

	err := row.Scan(
		&idBytes,
		&item.Title,
		&item.Slug,
		&item.Body,
		&item.Summary,
		&authorIDBytes,
		&statusStr,
		&initiatedBy,
		&initiatedAt,
		&reviewedBy,
		&reviewedAt,
		&publishedBy,
		&publishedAt,
		&rejectedBy,
		&rejectedAt,
		&item.RejectionReason,
		&item.ReviewNotes,
		&assignedTo,
		&priorityStr,
		&dueDate,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.ID = uuid.UUID(idBytes.Bytes)
	item.AuthorID = uuid.UUID(authorIDBytes.Bytes)
	item.Status = domain.ContentStatus(statusStr)
	if !item.Status.IsValid() {
		return nil, fmt.Errorf("scanContentItem: invalid status %s", statusStr)
	}
	item.Priority = domain.Priority(priorityStr)

	item.InitiatedBy = uuidFromParam(initiatedBy)
	item.ReviewedBy = uuidFromParam(reviewedBy)
	item.PublishedBy = uuidFromParam(publishedBy)
	item.RejectedBy = uuidFromParam(rejectedBy)
	item.AssignedTo = uuidFromParam(assignedTo)

	item.InitiatedAt = timeFromParam(initiatedAt)
	item.ReviewedAt = timeFromParam(reviewedAt)
	item.PublishedAt = timeFromParam(publishedAt)
	item.RejectedAt = timeFromParam(rejectedAt)
	item.DueDate = timeFromParam(dueDate)

	return &item, nil
}

func scanContentSummary(rows pgx.Rows) (*ports.ContentSummary, error) {
	var summary ports.ContentSummary
	var idBytes, authorIDBytes, assignedTo pgtype.UUID
	var dueDate, publishedAt pgtype.Timestamptz
	var statusStr, priorityStr string

	err := rows.Scan(
		&idBytes,
		&summary.Title,
		&summary.Slug,
		&summary.Summary,
		&authorIDBytes,
		&statusStr,
		&assignedTo,
		&priorityStr,
		&dueDate,
		&publishedAt,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanContentSummary: %w", err)
	}

	summary.ID = uuid.UUID(idBytes.Bytes)
	summary.AuthorID = uuid.UUID(authorIDBytes.Bytes)
	summary.Status = domain.ContentStatus(statusStr)
	summary.Stage = summary.Status.Stage()
	summary.Priority = domain.Priority(priorityStr)
	summary.AssignedTo = uuidFromParam(assignedTo)
	summary.DueDate = timeFromParam(dueDate)
	summary.PublishedAt = timeFromParam(publishedAt)

	return &summary, nil
}

// Shared pgtype conversion helpers

func uuidParam(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func uuidPtrParam(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func uuidFromParam(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}

func timePtrParam(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func timeFromParam(v pgtype.Timestamptz) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
