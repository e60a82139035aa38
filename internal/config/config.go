package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the ambient settings of the CLI. Credentials and resource
// selectors come in through command-line flags (with their own AZURE_* env
// fallbacks) rather than through here.
type Config struct {
	ARMEndpoint      string
	LoginEndpoint    string
	LogLevel         string
	LogFormat        string
	TelemetryEnabled bool
}

func Load() (*Config, error) {
	viper.SetDefault("arm_endpoint", "https://eastus2euap.management.azure.com")
	viper.SetDefault("login_endpoint", "https://login.microsoftonline.com")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("telemetry_enabled", false)

	viper.SetEnvPrefix("aitl")
	viper.AutomaticEnv()

	cfg := &Config{
		ARMEndpoint:      viper.GetString("arm_endpoint"),
		LoginEndpoint:    viper.GetString("login_endpoint"),
		LogLevel:         viper.GetString("log_level"),
		LogFormat:        viper.GetString("log_format"),
		TelemetryEnabled: viper.GetBool("telemetry_enabled"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.LogLevel)
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.LogFormat)
	}

	if c.ARMEndpoint == "" {
		return fmt.Errorf("arm endpoint must not be empty")
	}
	if c.LoginEndpoint == "" {
		return fmt.Errorf("login endpoint must not be empty")
	}

	return nil
}
