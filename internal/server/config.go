package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harborworks/cms/internal/platform/logger"
)

type Config struct {
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	JWKSEndpoint  string `mapstructure:"JWKS_ENDPOINT"` // JWKS endpoint for JWT validation
	JWTIssuer     string `mapstructure:"JWT_ISSUER"`    // Expected JWT issuer
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	Environment   string `mapstructure:"ENVIRONMENT"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`

	// Bootstrap credentials for the first super-admin account. When
	// empty, the seeder skips and an operator must provision the first
	// account out of band.
	BootstrapAdminEmail    string `mapstructure:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string `mapstructure:"BOOTSTRAP_ADMIN_PASSWORD"`
}

func LoadConfig(bootstrapLogger *logger.BootstrapLogger) (Config, error) {
	ctx := context.Background()

	// Load .env file if it exists; plain environment variables work too
	if err := godotenv.Load(); err != nil {
		bootstrapLogger.Info(ctx, "no .env file found, using environment variables only")
	} else {
		bootstrapLogger.Info(ctx, "loaded .env file")
	}

	v := viper.New()

	v.SetDefault("DATABASE_URL", "postgresql://localhost:5432/cms?sslmode=disable")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		bootstrapLogger.Error(ctx, "failed to unmarshal configuration", "error", err)
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	bootstrapLogger.Info(ctx, "configuration loaded",
		"environment", config.Environment,
		"log_level", config.LogLevel,
		"server_address", config.ServerAddress,
	)

	if config.JWKSEndpoint == "" {
		err := errors.New("JWKS_ENDPOINT is required")
		bootstrapLogger.Error(ctx, "configuration validation failed", "error", err)
		return Config{}, err
	}
	if config.JWTIssuer == "" {
		err := errors.New("JWT_ISSUER is required")
		bootstrapLogger.Error(ctx, "configuration validation failed", "error", err)
		return Config{}, err
	}

	return config, nil
}
