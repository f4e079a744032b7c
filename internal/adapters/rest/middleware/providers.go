package middleware

import (
	"context"

	"github.com/google/wire"

	authzapp "github.com/harborworks/cms/internal/authz/application"
	"github.com/harborworks/cms/internal/authz/ports"
	"github.com/harborworks/cms/internal/platform/logger"
)

// ProviderSet is the wire provider set for middleware components
var ProviderSet = wire.NewSet(
	ProvideJWTMiddleware,
	ProvideAuthAdapter,
	ProvideAuthorizationMiddleware,
)

// JWTConfig carries the minimal settings needed to construct the JWT middleware
type JWTConfig struct {
	JWKS   string
	Issuer string
}

// ProvideJWTMiddleware creates JWT middleware from JWTConfig
func ProvideJWTMiddleware(ctx context.Context, cfg JWTConfig) (*JWTMiddleware, error) {
	return NewJWTMiddleware(ctx, cfg.JWKS, cfg.Issuer)
}

// ProvideAuthAdapter creates the auth adapter middleware
func ProvideAuthAdapter(profiles ports.ProfileRepository, log logger.Logger) *AuthAdapter {
	return NewAuthAdapter(profiles, log)
}

// ProvideAuthorizationMiddleware creates the authorization middleware
func ProvideAuthorizationMiddleware(authzService *authzapp.AuthzService, log logger.Logger) *AuthorizationMiddleware {
	return NewAuthorizationMiddleware(authzService, log)
}
