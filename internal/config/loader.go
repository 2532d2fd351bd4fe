package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the YAML file at path, applies APP_* environment overrides (app.port becomes
// APP_APP_PORT, postgres.user becomes APP_POSTGRES_USER) and validates the result. An empty
// path runs on defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.inheritAppSettings()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// LoadOptional behaves like Load but falls back to defaults when the file does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Load("")
	}
	return cfg, err
}

// inheritAppSettings lets the logger section omit what the app section already says.
func (c *Config) inheritAppSettings() {
	if c.Logger.Env == "" {
		c.Logger.Env = c.App.Env
	}
	if c.Logger.ServiceName == "" {
		c.Logger.ServiceName = c.App.Name
	}
	if c.Logger.ServiceVersion == "" {
		c.Logger.ServiceVersion = c.App.Version
	}
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "squad-manager-service")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", 8080)

	v.SetDefault("logger.level", "")
	v.SetDefault("logger.format", "")
	v.SetDefault("logger.output_target", "")
	v.SetDefault("logger.time_field", "")
	v.SetDefault("logger.time_format", "")
	v.SetDefault("logger.service_name", "")
	v.SetDefault("logger.service_version", "")
	v.SetDefault("logger.env", "")
	v.SetDefault("logger.with_caller", false)
	v.SetDefault("logger.stacktrace", false)
	v.SetDefault("logger.stacktrace_min_level", "")

	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.path", "data")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 30)

	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "15s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.cors_origins", []string{"http://localhost:5173"})
}
