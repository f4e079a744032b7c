package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborworks/cms/internal/content/domain"
	"github.com/harborworks/cms/internal/platform/postgres"
)

// AuditRepository implements ports.AuditWriter using PostgreSQL. The
// workflow_audit_log table is append-only; there is deliberately no
// update or delete here.
type AuditRepository struct {
	postgres.BaseRepository
}

// NewAuditRepository creates a new PostgreSQL audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// Append persists one audit entry
func (r *AuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	query, args, err := r.SB.
		Insert("workflow_audit_log").
		Columns(
			"id", "content_id", "action", "old_status", "new_status",
			"performed_by", "performed_by_id", "notes", "occurred_at",
		).
		Values(
			uuidParam(entry.ID),
			uuidParam(entry.ContentID),
			entry.Action,
			string(entry.OldStatus),
			string(entry.NewStatus),
			entry.PerformedBy,
			uuidParam(entry.PerformedByID),
			entry.Notes,
			pgtype.Timestamptz{Time: entry.Timestamp, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("AuditRepository.Append: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("AuditRepository.Append: %w", err)
	}
	return nil
}

// ListByContent retrieves the audit trail for one item, oldest first
func (r *AuditRepository) ListByContent(ctx context.Context, contentID uuid.UUID) ([]*domain.AuditEntry, error) {
	query, args, err := r.SB.
		Select(
			"id", "content_id", "action", "old_status", "new_status",
			"performed_by", "performed_by_id", "notes", "occurred_at",
		).
		From("workflow_audit_log").
		Where(sq.Eq{"content_id": uuidParam(contentID)}).
		OrderBy("occurred_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("AuditRepository.ListByContent: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("AuditRepository.ListByContent: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var id, contentIDBytes, performedByID pgtype.UUID
		var oldStatus, newStatus string

		err := rows.Scan(
			&id,
			&contentIDBytes,
			&entry.Action,
			&oldStatus,
			&newStatus,
			&entry.PerformedBy,
			&performedByID,
			&entry.Notes,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("AuditRepository.ListByContent: scan: %w", err)
		}

		entry.ID = uuid.UUID(id.Bytes)
		entry.ContentID = uuid.UUID(contentIDBytes.Bytes)
		entry.PerformedByID = uuid.UUID(performedByID.Bytes)
		entry.OldStatus = domain.ContentStatus(oldStatus)
		entry.NewStatus = domain.ContentStatus(newStatus)

		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("AuditRepository.ListByContent: rows error: %w", err)
	}
	return entries, nil
}
