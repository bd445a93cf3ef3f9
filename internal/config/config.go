// Package config loads and validates the advisor configuration from a YAML
// file and environment variables.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Default values applied when neither the config file nor the environment
// sets them.
const (
	DefaultPort        = 3000
	DefaultModel       = "gpt-4-turbo-preview"
	DefaultAPIVersion  = "2024-08-01-preview"
	DefaultMaxMessages = 20
	DefaultIdleMinutes = 30
)

// Defaults returns a Config with defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:      DefaultPort,
			PublicDir: "public",
		},
		Provider: ProviderConfig{
			OpenAI: OpenAIConfig{Model: DefaultModel},
			Azure:  AzureConfig{APIVersion: DefaultAPIVersion},
		},
		Session: SessionConfig{
			Store:       "memory",
			MaxMessages: DefaultMaxMessages,
			IdleMinutes: DefaultIdleMinutes,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
