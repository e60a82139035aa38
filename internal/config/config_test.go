package config_test

import (
	"testing"

	"github.com/azurelinux/aitl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://eastus2euap.management.azure.com", cfg.ARMEndpoint)
	assert.Equal(t, "https://login.microsoftonline.com", cfg.LoginEndpoint)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.TelemetryEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AITL_ARM_ENDPOINT", "https://management.azure.com")
	t.Setenv("AITL_LOG_LEVEL", "debug")
	t.Setenv("AITL_LOG_FORMAT", "json")
	t.Setenv("AITL_TELEMETRY_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://management.azure.com", cfg.ARMEndpoint)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.TelemetryEnabled)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("AITL_LOG_LEVEL", "verbose")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	type testCase struct {
		cfg    config.Config
		expErr string
	}

	testCases := map[string]testCase{
		"valid": {
			cfg: config.Config{
				ARMEndpoint:   "https://eastus2euap.management.azure.com",
				LoginEndpoint: "https://login.microsoftonline.com",
				LogLevel:      "warn",
				LogFormat:     "json",
			},
		},
		"bad-format": {
			cfg: config.Config{
				ARMEndpoint:   "https://eastus2euap.management.azure.com",
				LoginEndpoint: "https://login.microsoftonline.com",
				LogLevel:      "info",
				LogFormat:     "xml",
			},
			expErr: "invalid log format",
		},
		"empty-arm-endpoint": {
			cfg: config.Config{
				LoginEndpoint: "https://login.microsoftonline.com",
				LogLevel:      "info",
				LogFormat:     "text",
			},
			expErr: "arm endpoint",
		},
		"empty-login-endpoint": {
			cfg: config.Config{
				ARMEndpoint: "https://eastus2euap.management.azure.com",
				LogLevel:    "info",
				LogFormat:   "text",
			},
			expErr: "login endpoint",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := test.cfg.Validate()
			if test.expErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.expErr)
		})
	}
}
