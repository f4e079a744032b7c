package server

import (
	"github.com/harborworks/cms/internal/adapters/rest/middleware"
	adminapp "github.com/harborworks/cms/internal/admin/application"
	authzseeder "github.com/harborworks/cms/internal/authz/seeder"
	contentapp "github.com/harborworks/cms/internal/content/application"
	contentports "github.com/harborworks/cms/internal/content/ports"
	"github.com/harborworks/cms/internal/platform/logger"
	"github.com/harborworks/cms/internal/platform/ownership"
	"github.com/harborworks/cms/internal/platform/seeder"
)

// provideVersion provides the application version
func provideVersion() string {
	return "1.0.0"
}

// provideLoggerConfig creates logger config from server config
func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

// provideJWTConfig extracts the JWT middleware settings
func provideJWTConfig(config Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		JWKS:   config.JWKSEndpoint,
		Issuer: config.JWTIssuer,
	}
}

// provideOwnershipRegistry builds the ownership registry with every
// resource checker registered. Registration happens here so the
// registry handed to the authz service is never half-populated.
func provideOwnershipRegistry(repo contentports.ContentRepository, log logger.Logger) ownership.Registry {
	registry := ownership.NewRegistry()
	contentapp.RegisterContentOwnership(registry, repo, log)
	return registry
}

// provideSeeders assembles the startup seeders in run order
func provideSeeders(admin *adminapp.AdminService, config Config, log logger.Logger) []seeder.Seeder {
	return []seeder.Seeder{
		authzseeder.NewBootstrapSeeder(admin, config.BootstrapAdminEmail, config.BootstrapAdminPassword, log),
	}
}
