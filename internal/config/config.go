package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/squad-manager-service/internal/logger"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Store    StoreConfig         `mapstructure:"store"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	HTTP     HTTPConfig          `mapstructure:"http"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env" validate:"oneof=dev test staging prod"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// StoreConfig selects the record store backend. Path is the directory of the file driver.
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory file postgres"`
	Path   string `mapstructure:"path" validate:"required_if=Driver file"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`

	// Pool tuning; durations are in seconds.
	MaxConns          int32 `mapstructure:"max_conns"`
	MinConns          int32 `mapstructure:"min_conns"`
	MaxConnLifetime   int   `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int   `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int   `mapstructure:"health_check_period"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// Addr is the listen address derived from app.port.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.App.Port) }

// Validate checks the loaded config. Postgres settings are only required by the postgres driver.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.App); err != nil {
		return fmt.Errorf("app config: %w", err)
	}
	if err := v.Struct(c.Store); err != nil {
		return fmt.Errorf("store config: %w", err)
	}
	if c.Store.Driver != DriverPostgres {
		return nil
	}

	var missing []string
	if c.Postgres.Host == "" {
		missing = append(missing, "postgres.host")
	}
	if c.Postgres.User == "" {
		missing = append(missing, "postgres.user")
	}
	if c.Postgres.Password == "" {
		missing = append(missing, "postgres.password")
	}
	if c.Postgres.DBName == "" {
		missing = append(missing, "postgres.db")
	}
	if len(missing) > 0 {
		return fmt.Errorf("postgres config: missing %s", strings.Join(missing, ", "))
	}
	if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
		return errors.New("postgres config: port must be in 1..65535")
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns {
		return errors.New("postgres config: min_conns must not exceed max_conns")
	}
	return nil
}
