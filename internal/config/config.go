// Package config loads the service configuration from the environment.
//
// Variables use the EXPENSE_TRACKER_ prefix and a double underscore for
// nesting, e.g. EXPENSE_TRACKER_DATABASE__CONNECTION_STRING maps to
// database.connection_string. A .env file in the working directory is
// loaded first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "EXPENSE_TRACKER_"

type Config struct {
	Primary      Primary            `koanf:"primary"`
	Server       ServerConfig       `koanf:"server"`
	Database     DatabaseConfig     `koanf:"database" validate:"required"`
	Auth         AuthConfig         `koanf:"auth" validate:"required"`
	Logging      LoggingConfig      `koanf:"logging"`
	HealthChecks HealthChecksConfig `koanf:"health_checks"`
}

type Primary struct {
	Env string `koanf:"env" validate:"oneof=local development production"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"min=1s"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"min=1s"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"min=1s"`
}

type DatabaseConfig struct {
	ConnectionString string        `koanf:"connection_string" validate:"required"`
	MaxOpenConns     int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns     int           `koanf:"max_idle_conns" validate:"min=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime  time.Duration `koanf:"conn_max_lifetime"`
	// Trace logs every SQL statement through the application logger.
	Trace bool `koanf:"trace"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type HealthChecksConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval" validate:"min=1s"`
}

func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}

// envKey turns EXPENSE_TRACKER_DATABASE__MAX_OPEN_CONNS into database.max_open_conns.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Load reads the environment, applies defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Primary.Env == "" {
		cfg.Primary.Env = "development"
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}

	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 50
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 25
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 5 * time.Minute
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
		if !cfg.IsProduction() {
			cfg.Logging.Level = "debug"
		}
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
		if cfg.IsProduction() {
			cfg.Logging.Format = "json"
		}
	}

	if cfg.HealthChecks.Interval == 0 {
		cfg.HealthChecks.Interval = 30 * time.Second
	}
}
