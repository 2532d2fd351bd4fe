package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		config         *LoggerConfig
		expectError    bool
		validateOutput func(zerolog.Logger) bool
	}{
		{
			name: "valid production environment",
			config: &LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Env:            "prod",
				Level:          "info",
				TimeField:      "timestamp",
				Fields:         map[string]interface{}{"key": "value"},
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.InfoLevel
			},
		},
		{
			name: "invalid configuration - wrong env",
			config: &LoggerConfig{
				ServiceName: "bad-service",
				Env:         "wrong-env", // not allowed by validator
				Level:       "debug",
			},
			expectError: true,
		},
		{
			name: "invalid log level",
			config: &LoggerConfig{
				ServiceName: "test-service",
				Env:         "prod",
				Level:       "invalid-level", // not allowed
			},
			expectError: true,
		},
		{
			name: "invalid output target",
			config: &LoggerConfig{
				Env:          "prod",
				OutputTarget: "syslog",
			},
			expectError: true,
		},
		{
			name: "valid staging environment",
			config: &LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "2.0.0",
				Env:            "staging",
				Level:          "warn",
				TimeField:      "time",
				Stacktrace:     true,
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.WarnLevel
			},
		},
		{
			name: "valid test environment on stderr",
			config: &LoggerConfig{
				Env:          "test",
				Level:        "error",
				OutputTarget: "stderr",
				TimeFormat:   "unix",
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.ErrorLevel
			},
		},
		{
			name: "valid development environment without debug",
			config: &LoggerConfig{
				ServiceName: "test-service",
				Env:         "dev",
				Level:       "info",
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.InfoLevel
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, err := New(test.config)
			if test.expectError {
				assert.NotNil(t, err)
				return
			}
			assert.NoError(t, err)
			if test.validateOutput != nil {
				assert.True(t, test.validateOutput(l))
			}
		})
	}

	t.Run("debug log file creation", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(wd) })
		config := &LoggerConfig{
			ServiceName: "integration-test",
			Env:         "dev",
			Level:       "debug",
		}

		_, err = New(config)
		assert.NoError(t, err)

		_, statErr := os.Stat(DebugLogPath)
		assert.NoError(t, statErr)
	})
}

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&LoggerConfig{
		Env:        "prod",
		Level:      "info",
		Stacktrace: false,
		Fields:     map[string]interface{}{"team": "primera"},
		Writer:     &buf,
	})
	require.NoError(t, err)

	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "squad-manager-service", entry["service"])
	assert.Equal(t, "prod", entry["env"])
	assert.Equal(t, "primera", entry["team"])
	assert.Equal(t, "hello", entry["message"])
	assert.Contains(t, entry, "ts")
}
