//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/google/wire"

	"github.com/harborworks/cms/internal/adapters/authz_adapter"
	"github.com/harborworks/cms/internal/adapters/identity"
	"github.com/harborworks/cms/internal/adapters/postgres"
	"github.com/harborworks/cms/internal/adapters/rest"
	"github.com/harborworks/cms/internal/adapters/rest/middleware"
	adminapp "github.com/harborworks/cms/internal/admin/application"
	authzapp "github.com/harborworks/cms/internal/authz/application"
	contentapp "github.com/harborworks/cms/internal/content/application"
	"github.com/harborworks/cms/internal/platform/eventbus"
	"github.com/harborworks/cms/internal/platform/logger"
	platformpg "github.com/harborworks/cms/internal/platform/postgres"
	"github.com/harborworks/cms/internal/platform/seeder"
)

// InitializeApp creates a fully configured App with all dependencies
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		// Bootstrap phase
		logger.NewBootstrapLogger,
		LoadConfig,

		// Logger configuration
		provideLoggerConfig,
		logger.NewConfiguredLogger,
		wire.Bind(new(logger.Logger), new(*logger.SlogAdapter)),

		// Database
		ConnectDatabase,
		platformpg.NewTransactionManager,

		// Repository providers (includes interface binding)
		postgres.ProviderSet,
		identity.ProviderSet,

		// Platform services
		provideOwnershipRegistry,
		eventbus.ProviderSet,

		// Application services
		authzapp.ProviderSet,
		contentapp.ProviderSet,
		adminapp.ProviderSet,
		authz_adapter.ProviderSet,

		// REST handlers
		rest.ProviderSet,
		provideVersion,
		NewHandlers,

		// Auth middleware
		provideJWTConfig,
		middleware.ProviderSet,

		// Seeding
		provideSeeders,
		seeder.NewOrchestrator,

		// HTTP Server
		NewHTTPServer,

		// App
		NewApp,
	)

	return nil, nil, nil
}
