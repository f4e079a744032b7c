package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborworks/cms/internal/content/domain"
	"github.com/harborworks/cms/internal/content/ports"
	"github.com/harborworks/cms/internal/platform/postgres"
)

var assignmentColumns = []string{
	"id", "content_id", "assignee_id", "role", "assigned_by", "notes", "created_at",
}

// AssignmentsRepository implements ports.AssignmentRepository using PostgreSQL
type AssignmentsRepository struct {
	postgres.BaseRepository
}

// NewAssignmentsRepository creates a new PostgreSQL assignment repository
func NewAssignmentsRepository(db *pgxpool.Pool) *AssignmentsRepository {
	return &AssignmentsRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// WithTx creates a new repository instance bound to the transaction
func (r *AssignmentsRepository) WithTx(tx pgx.Tx) ports.AssignmentRepository {
	return &AssignmentsRepository{
		BaseRepository: r.BaseRepository.WithTx(tx),
	}
}

// Create persists an assignment record
func (r *AssignmentsRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	query, args, err := r.SB.
		Insert("content_assignments").
		Columns(assignmentColumns...).
		Values(
			uuidParam(assignment.ID),
			uuidParam(assignment.ContentID),
			uuidParam(assignment.AssigneeID),
			string(assignment.Role),
			uuidParam(assignment.AssignedBy),
			assignment.Notes,
			pgtype.Timestamptz{Time: assignment.CreatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("AssignmentsRepository.Create: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("AssignmentsRepository.Create: %w", err)
	}
	return nil
}

// ListByContent retrieves assignments for one item, newest first
func (r *AssignmentsRepository) ListByContent(ctx context.Context, contentID uuid.UUID) ([]*domain.Assignment, error) {
	return r.list(ctx, sq.Eq{"content_id": uuidParam(contentID)}, "ListByContent")
}

// ListByAssignee retrieves a user's assignments, newest first
func (r *AssignmentsRepository) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Assignment, error) {
	return r.list(ctx, sq.Eq{"assignee_id": uuidParam(assigneeID)}, "ListByAssignee")
}

func (r *AssignmentsRepository) list(ctx context.Context, where sq.Eq, op string) ([]*domain.Assignment, error) {
	query, args, err := r.SB.
		Select(assignmentColumns...).
		From("content_assignments").
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("AssignmentsRepository.%s: build query: %w", op, err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("AssignmentsRepository.%s: %w", op, err)
	}
	defer rows.Close()

	var assignments []*domain.Assignment
	for rows.Next() {
		var assignment domain.Assignment
		var id, contentID, assigneeID, assignedBy pgtype.UUID
		var roleStr string

		err := rows.Scan(
			&id,
			&contentID,
			&assigneeID,
			&roleStr,
			&assignedBy,
			&assignment.Notes,
			&assignment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("AssignmentsRepository.%s: scan: %w", op, err)
		}

		assignment.ID = uuid.UUID(id.Bytes)
		assignment.ContentID = uuid.UUID(contentID.Bytes)
		assignment.AssigneeID = uuid.UUID(assigneeID.Bytes)
		assignment.AssignedBy = uuid.UUID(assignedBy.Bytes)
		assignment.Role = domain.AssignmentRole(roleStr)

		assignments = append(assignments, &assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("AssignmentsRepository.%s: rows error: %w", op, err)
	}
	return assignments, nil
}
