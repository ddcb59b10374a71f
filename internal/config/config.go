package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Billing
	HourlyRate string `envconfig:"HOURLY_RATE" default:"5000"`

	// Vehicle identity: "global" shares vehicles across accounts,
	// "account" partitions them per operator.
	VehicleScope string `envconfig:"VEHICLE_SCOPE" default:"global"`

	// Security
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer     string `envconfig:"JWT_ISSUER" default:"parkeo"`
	JWTTTLHours   int    `envconfig:"JWT_TTL_HOURS" default:"24"`
	SnowflakeNode int64  `envconfig:"SNOWFLAKE_NODE" default:"1"`

	// External identity provider (optional). When JWKS_URL is set,
	// RS256 tokens signed by the provider are accepted alongside
	// locally issued HS256 ones.
	JWKSURL             string `envconfig:"JWKS_URL" default:""`
	JWKSCacheTTLMinutes int    `envconfig:"JWKS_CACHE_TTL_MINUTES" default:"15"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if !domain.IsValidVehicleScope(cfg.VehicleScope) {
		return nil, fmt.Errorf("invalid VEHICLE_SCOPE %q", cfg.VehicleScope)
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
