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

var profileColumns = []string{
	"user_id", "email", "display_name", "role", "is_super_admin",
	"custom_permissions", "group_ids", "is_active", "created_at", "updated_at",
}

// ProfilesRepository implements ports.ProfileRepository using PostgreSQL
type ProfilesRepository struct {
	postgres.BaseRepository
}

// NewProfilesRepository creates a new PostgreSQL profile repository
func NewProfilesRepository(db *pgxpool.Pool) *ProfilesRepository {
	return &ProfilesRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// GetByUserID retrieves a profile, active or not
func (r *ProfilesRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	return r.findOne(ctx, sq.Eq{"user_id": uuidParam(userID)}, "GetByUserID")
}

// GetByEmail retrieves a profile by its unique email
func (r *ProfilesRepository) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	return r.findOne(ctx, sq.Eq{"email": email}, "GetByEmail")
}

func (r *ProfilesRepository) findOne(ctx context.Context, where sq.Eq, op string) (*domain.UserProfile, error) {
	query, args, err := r.SB.
		Select(profileColumns...).
		From("user_profiles").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ProfilesRepository.%s: build query: %w", op, err)
	}

	profile, err := scanProfile(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrProfileNotFound
		}
		return nil, fmt.Errorf("ProfilesRepository.%s: %w", op, err)
	}
	return profile, nil
}

// List retrieves profiles ordered by creation time, newest first
func (r *ProfilesRepository) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*domain.UserProfile, error) {
	qb := r.SB.
		Select(profileColumns...).
		From("user_profiles").
		OrderBy("created_at DESC")

	if !includeInactive {
		qb = qb.Where(sq.Eq{"is_active": true})
	}
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}

	return r.queryProfiles(ctx, qb, "List")
}

// ListByRole retrieves all profiles holding a role
func (r *ProfilesRepository) ListByRole(ctx context.Context, role permission.RoleID) ([]*domain.UserProfile, error) {
	qb := r.SB.
		Select(profileColumns...).
		From("user_profiles").
		Where(sq.Eq{"role": string(role)}).
		OrderBy("created_at DESC")

	return r.queryProfiles(ctx, qb, "ListByRole")
}

func (r *ProfilesRepository) queryProfiles(ctx context.Context, qb sq.SelectBuilder, op string) ([]*domain.UserProfile, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ProfilesRepository.%s: build query: %w", op, err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ProfilesRepository.%s: %w", op, err)
	}
	defer rows.Close()

	var profiles []*domain.UserProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("ProfilesRepository.%s: %w", op, err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ProfilesRepository.%s: rows error: %w", op, err)
	}
	return profiles, nil
}

// Create persists a new profile
func (r *ProfilesRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	query, args, err := r.SB.
		Insert("user_profiles").
		Columns(profileColumns...).
		Values(
			uuidParam(profile.UserID),
			profile.Email,
			profile.DisplayName,
			string(profile.Role),
			profile.IsSuperAdmin,
			permissionTokens(profile.CustomPermissions),
			uuidArrayParam(profile.GroupIDs),
			profile.IsActive,
			pgtype.Timestamptz{Time: profile.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: profile.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("ProfilesRepository.Create: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "user_profiles_email_key") {
			return ports.ErrDuplicateEmail
		}
		return fmt.Errorf("ProfilesRepository.Create: %w", err)
	}
	return nil
}

// Update persists role, custom grants, group memberships and the active flag
func (r *ProfilesRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	query, args, err := r.SB.
		Update("user_profiles").
		Set("display_name", profile.DisplayName).
		Set("role", string(profile.Role)).
		Set("is_super_admin", profile.IsSuperAdmin).
		Set("custom_permissions", permissionTokens(profile.CustomPermissions)).
		Set("group_ids", uuidArrayParam(profile.GroupIDs)).
		Set("is_active", profile.IsActive).
		Set("updated_at", pgtype.Timestamptz{Time: profile.UpdatedAt, Valid: true}).
		Where(sq.Eq{"user_id": uuidParam(profile.UserID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ProfilesRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ProfilesRepository.Update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrProfileNotFound
	}
	return nil
}

// CountActiveByRole counts active profiles holding a role
func (r *ProfilesRepository) CountActiveByRole(ctx context.Context, role permission.RoleID) (int64, error) {
	query, args, err := r.SB.
		Select("COUNT(*)").
		From("user_profiles").
		Where(sq.Eq{"role": string(role), "is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ProfilesRepository.CountActiveByRole: build query: %w", err)
	}

	var count int64
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ProfilesRepository.CountActiveByRole: %w", err)
	}
	return count, nil
}

// Helper functions

func scanProfile(row pgx.Row) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	var userID pgtype.UUID
	var roleStr string
	var tokens []string
	var groupIDs []pgtype.UUID

	err := row.Scan(
		&userID,
		&profile.Email,
		&profile.DisplayName,
		&roleStr,
		&profile.IsSuperAdmin,
		&tokens,
		&groupIDs,
		&profile.IsActive,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	profile.UserID = uuid.UUID(userID.Bytes)
	profile.Role = permission.RoleID(roleStr)
	profile.CustomPermissions = permissionsFromTokens(tokens)
	profile.GroupIDs = uuidsFromArray(groupIDs)

	return &profile, nil
}

func permissionTokens(perms []permission.Permission) []string {
	tokens := make([]string, 0, len(perms))
	for _, p := range perms {
		tokens = append(tokens, string(p))
	}
	return tokens
}

func permissionsFromTokens(tokens []string) []permission.Permission {
	perms := make([]permission.Permission, 0, len(tokens))
	for _, t := range tokens {
		perms = append(perms, permission.Permission(t))
	}
	return perms
}

func uuidArrayParam(ids []uuid.UUID) []pgtype.UUID {
	out := make([]pgtype.UUID, 0, len(ids))
	for _, id := range ids {
		out = append(out, uuidParam(id))
	}
	return out
}

func uuidsFromArray(arr []pgtype.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(arr))
	for _, v := range arr {
		if v.Valid {
			out = append(out, uuid.UUID(v.Bytes))
		}
	}
	return out
}
