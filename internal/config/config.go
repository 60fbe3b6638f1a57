package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// AuthServiceConfig holds the service configuration, parsed from
// environment variables.
type AuthServiceConfig struct {
	ServiceName    string `env:"SERVICE_NAME"     envDefault:"auth-service"`
	HTTPAddr       string `env:"HTTP_ADDR"        envDefault:":8080"`
	GRPCHealthAddr string `env:"GRPC_HEALTH_ADDR" envDefault:":8081"`
	LogLevel       string `env:"LOG_LEVEL"        envDefault:"info"`

	Mongo  MongoConfig
	Token  TokenConfig
	Consul ConsulConfig
}

// MongoConfig holds database connection settings.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" envDefault:"auth"`
}

// TokenConfig holds bearer token settings. The secret has no default on
// purpose; key strength is enforced when the token codec is constructed.
type TokenConfig struct {
	Secret    string        `env:"TOKEN_SECRET"`
	ExpiresIn time.Duration `env:"TOKEN_EXPIRES_IN" envDefault:"1h"`
}

// ConsulConfig holds service registry settings.
type ConsulConfig struct {
	Enabled bool   `env:"CONSUL_ENABLED" envDefault:"false"`
	Addr    string `env:"CONSUL_ADDR"    envDefault:"127.0.0.1:8500"`
}

// NewAuthServiceConfig creates an AuthServiceConfig instance from
// environment variables.
func NewAuthServiceConfig(logger *zerolog.Logger) *AuthServiceConfig {
	cfg, err := env.ParseAs[AuthServiceConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate service configuration")
	}

	return &cfg
}

// validate checks if the service configuration is valid.
func (c *AuthServiceConfig) validate() error {
	if c.Token.Secret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}
	if c.Token.ExpiresIn <= 0 {
		return fmt.Errorf("TOKEN_EXPIRES_IN must be positive")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}

	return nil
}
