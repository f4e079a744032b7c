// Package identity stores login credentials separately from
// authorization profiles. Only the credential hash and the enabled flag
// live here; everything permission-related belongs to the authz module.
package identity

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/harborworks/cms/internal/admin/ports"
	"github.com/harborworks/cms/internal/platform/postgres"
)

// PostgresIdentityProvider implements ports.IdentityProvider backed by
// an auth_credentials table with bcrypt password hashes.
type PostgresIdentityProvider struct {
	postgres.BaseRepository
}

// NewPostgresIdentityProvider creates the credential store
func NewPostgresIdentityProvider(db *pgxpool.Pool) *PostgresIdentityProvider {
	return &PostgresIdentityProvider{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// Register creates a login identity and returns its user ID
func (p *PostgresIdentityProvider) Register(ctx context.Context, email, password string) (uuid.UUID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("PostgresIdentityProvider.Register: hash password: %w", err)
	}

	userID := uuid.New()
	query, args, err := p.SB.
		Insert("auth_credentials").
		Columns("user_id", "email", "password_hash", "is_disabled").
		Values(pgtype.UUID{Bytes: userID, Valid: true}, email, string(hash), false).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("PostgresIdentityProvider.Register: build query: %w", err)
	}

	if _, err = p.DB.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, ports.ErrIdentityExists
		}
		return uuid.Nil, fmt.Errorf("PostgresIdentityProvider.Register: %w", err)
	}
	return userID, nil
}

// Disable blocks future sign-ins for the identity
func (p *PostgresIdentityProvider) Disable(ctx context.Context, userID uuid.UUID) error {
	return p.setDisabled(ctx, userID, true, "Disable")
}

// Enable restores sign-in for the identity
func (p *PostgresIdentityProvider) Enable(ctx context.Context, userID uuid.UUID) error {
	return p.setDisabled(ctx, userID, false, "Enable")
}

func (p *PostgresIdentityProvider) setDisabled(ctx context.Context, userID uuid.UUID, disabled bool, op string) error {
	query, args, err := p.SB.
		Update("auth_credentials").
		Set("is_disabled", disabled).
		Where(sq.Eq{"user_id": pgtype.UUID{Bytes: userID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostgresIdentityProvider.%s: build query: %w", op, err)
	}

	result, err := p.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("PostgresIdentityProvider.%s: %w", op, err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrIdentityNotFound
	}
	return nil
}

var _ ports.IdentityProvider = (*PostgresIdentityProvider)(nil)
