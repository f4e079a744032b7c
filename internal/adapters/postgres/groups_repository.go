package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborworks/cms/internal/authz/domain"
	"github.com/harborworks/cms/internal/authz/permission"
	"github.com/harborworks/cms/internal/authz/ports"
	"github.com/harborworks/cms/internal/platform/postgres"
)

var groupColumns = []string{
	"id", "name", "description", "permissions", "is_active",
	"created_by", "created_at", "updated_at",
}

// GroupsRepository implements ports.GroupRepository using PostgreSQL
type GroupsRepository struct {
	postgres.BaseRepository
}

// NewGroupsRepository creates a new PostgreSQL group repository
func NewGroupsRepository(db *pgxpool.Pool) *GroupsRepository {
	return &GroupsRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// GetByID retrieves a group with its permission bundle
func (r *GroupsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PermissionGroup, error) {
	query, args, err := r.SB.
		Select(groupColumns...).
		From("permission_groups").
		Where(sq.Eq{"id": uuidParam(id)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("GroupsRepository.GetByID: build query: %w", err)
	}

	group, err := scanGroup(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrGroupNotFound
		}
		return nil, fmt.Errorf("GroupsRepository.GetByID: %w", err)
	}
	return group, nil
}

// GetByIDs retrieves several groups at once; missing IDs are skipped
func (r *GroupsRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.PermissionGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	qb := r.SB.
		Select(groupColumns...).
		From("permission_groups").
		Where(sq.Eq{"id": uuidArrayParam(ids)})

	return r.queryGroups(ctx, qb, "GetByIDs")
}

// List retrieves all groups ordered by name
func (r *GroupsRepository) List(ctx context.Context) ([]*domain.PermissionGroup, error) {
	qb := r.SB.
		Select(groupColumns...).
		From("permission_groups").
		OrderBy("name ASC")

	return r.queryGroups(ctx, qb, "List")
}

func (r *GroupsRepository) queryGroups(ctx context.Context, qb sq.SelectBuilder, op string) ([]*domain.PermissionGroup, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("GroupsRepository.%s: build query: %w", op, err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("GroupsRepository.%s: %w", op, err)
	}
	defer rows.Close()

	var groups []*domain.PermissionGroup
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("GroupsRepository.%s: %w", op, err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GroupsRepository.%s: rows error: %w", op, err)
	}
	return groups, nil
}

// Create persists a new group
func (r *GroupsRepository) Create(ctx context.Context, group *domain.PermissionGroup) error {
	query, args, err := r.SB.
		Insert("permission_groups").
		Columns(groupColumns...).
		Values(
			uuidParam(group.ID),
			group.Name,
			group.Description,
			permissionTokens(group.Permissions),
			group.IsActive,
			uuidParam(group.CreatedBy),
			pgtype.Timestamptz{Time: group.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: group.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("GroupsRepository.Create: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("GroupsRepository.Create: %w", err)
	}
	return nil
}

// Update persists name, description, the permission bundle and the
// active flag
func (r *GroupsRepository) Update(ctx context.Context, group *domain.PermissionGroup) error {
	query, args, err := r.SB.
		Update("permission_groups").
		Set("name", group.Name).
		Set("description", group.Description).
		Set("permissions", permissionTokens(group.Permissions)).
		Set("is_active", group.IsActive).
		Set("updated_at", pgtype.Timestamptz{Time: group.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": uuidParam(group.ID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("GroupsRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("GroupsRepository.Update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrGroupNotFound
	}
	return nil
}

// Delete removes a group
func (r *GroupsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.SB.
		Delete("permission_groups").
		Where(sq.Eq{"id": uuidParam(id)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("GroupsRepository.Delete: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("GroupsRepository.Delete: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrGroupNotFound
	}
	return nil
}

func scanGroup(row pgx.Row) (*domain.PermissionGroup, error) {
	var group domain.PermissionGroup
	var id, createdBy pgtype.UUID
	var tokens []string

	err := row.Scan(
		&id,
		&group.Name,
		&group.Description,
		&tokens,
		&group.IsActive,
		&createdBy,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	group.ID = uuid.UUID(id.Bytes)
	group.CreatedBy = uuid.UUID(createdBy.Bytes)
	group.Permissions = make([]permission.Permission, 0, len(tokens))
	for _, t := range tokens {
		group.Permissions = append(group.Permissions, permission.Permission(t))
	}

	return &group, nil
}
