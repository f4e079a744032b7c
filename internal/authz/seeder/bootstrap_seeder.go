package seeder

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	adminapp "github.com/harborworks/cms/internal/admin/application"
	"github.com/harborworks/cms/internal/platform/logger"
)

// BootstrapSeeder provisions the default super-admin on startup so a
// fresh deployment is never locked out of its own admin surface. It
// delegates to the admin service's idempotent bootstrap, so running it
// on every boot is safe.
type BootstrapSeeder struct {
	admin    *adminapp.AdminService
	email    string
	password string
	logger   logger.Logger
}

// NewBootstrapSeeder creates the super-admin bootstrap seeder
func NewBootstrapSeeder(admin *adminapp.AdminService, email, password string, logger logger.Logger) *BootstrapSeeder {
	return &BootstrapSeeder{
		admin:    admin,
		email:    email,
		password: password,
		logger:   logger,
	}
}

// Name implements the Seeder interface
func (s *BootstrapSeeder) Name() string {
	return "authz-bootstrap"
}

// Seed ensures one active super-admin exists
func (s *BootstrapSeeder) Seed(ctx context.Context, _ *pgxpool.Pool) error {
	if s.email == "" || s.password == "" {
		s.logger.Warn(ctx, "bootstrap admin credentials not configured, skipping super-admin bootstrap")
		return nil
	}
	return s.admin.EnsureDefaultSuperAdmin(ctx, s.email, s.password)
}
