package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "advisor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// clearEnv pins the override variables empty so ambient values in the test
// environment cannot leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "OPENAI_API_KEY", "OPENAI_MODEL",
		"AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_KEY",
		"AZURE_OPENAI_DEPLOYMENT", "AZURE_OPENAI_API_VERSION",
		"ADVISOR_LOG_LEVEL", "ADVISOR_SESSION_STORE",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultModel, cfg.Provider.OpenAI.Model)
	assert.Equal(t, DefaultAPIVersion, cfg.Provider.Azure.APIVersion)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, DefaultMaxMessages, cfg.Session.MaxMessages)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
provider:
  openai:
    apiKey: sk-from-file
    model: gpt-4o
session:
  store: sqlite
  dbPath: /tmp/advisor.db
logging:
  level: debug
`)

	clearEnv(t)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sk-from-file", cfg.Provider.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Provider.OpenAI.Model)
	assert.Equal(t, "sqlite", cfg.Session.Store)
	assert.Equal(t, "/tmp/advisor.db", cfg.Session.DBPath)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields still get defaults.
	assert.Equal(t, DefaultAPIVersion, cfg.Provider.Azure.APIVersion)
	assert.Equal(t, DefaultMaxMessages, cfg.Session.MaxMessages)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")

	_, err := Load(path)
	require.Error(t, err)
	var cerr *ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
provider:
  openai:
    apiKey: sk-from-file
`)

	t.Setenv("PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_KEY", "azure-env-key")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "gpt4")
	t.Setenv("AZURE_OPENAI_API_VERSION", "2024-10-21")
	t.Setenv("ADVISOR_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk-from-env", cfg.Provider.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Provider.OpenAI.Model)
	assert.Equal(t, "https://example.openai.azure.com", cfg.Provider.Azure.Endpoint)
	assert.Equal(t, "azure-env-key", cfg.Provider.Azure.APIKey)
	assert.Equal(t, "gpt4", cfg.Provider.Azure.Deployment)
	assert.Equal(t, "2024-10-21", cfg.Provider.Azure.APIVersion)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadExpandsCredentialReferences(t *testing.T) {
	path := writeConfig(t, `
provider:
  openai:
    apiKey: ${MY_SECRET_KEY}
`)

	t.Setenv("MY_SECRET_KEY", "sk-expanded")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-expanded", cfg.Provider.OpenAI.APIKey)
}

func TestLoadLeavesUnsetReferences(t *testing.T) {
	path := writeConfig(t, `
provider:
  openai:
    apiKey: ${DEFINITELY_NOT_SET_ANYWHERE}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${DEFINITELY_NOT_SET_ANYWHERE}", cfg.Provider.OpenAI.APIKey)
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	valid.Provider.OpenAI.APIKey = "sk-test"

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{
			name:   "valid openai config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid azure config",
			mutate: func(c *Config) {
				c.Provider.OpenAI.APIKey = ""
				c.Provider.Azure.Endpoint = "https://example.openai.azure.com"
				c.Provider.Azure.APIKey = "azure-key"
				c.Provider.Azure.Deployment = "gpt4"
			},
		},
		{
			name:     "port out of range",
			mutate:   func(c *Config) { c.Server.Port = 70000 },
			wantPath: "server.port",
		},
		{
			name: "azure endpoint without key",
			mutate: func(c *Config) {
				c.Provider.Azure.Endpoint = "https://example.openai.azure.com"
			},
			wantPath: "provider.azure",
		},
		{
			name: "azure without deployment",
			mutate: func(c *Config) {
				c.Provider.Azure.Endpoint = "https://example.openai.azure.com"
				c.Provider.Azure.APIKey = "azure-key"
			},
			wantPath: "provider.azure.deployment",
		},
		{
			name: "azure endpoint not a URL",
			mutate: func(c *Config) {
				c.Provider.Azure.Endpoint = "example.openai.azure.com"
				c.Provider.Azure.APIKey = "azure-key"
				c.Provider.Azure.Deployment = "gpt4"
			},
			wantPath: "provider.azure.endpoint",
		},
		{
			name:     "no credentials at all",
			mutate:   func(c *Config) { c.Provider.OpenAI.APIKey = "" },
			wantPath: "provider.openai.apiKey",
		},
		{
			name:     "unknown store",
			mutate:   func(c *Config) { c.Session.Store = "redis" },
			wantPath: "session.store",
		},
		{
			name:     "cap too small",
			mutate:   func(c *Config) { c.Session.MaxMessages = 1 },
			wantPath: "session.maxMessages",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			issues := Validate(&cfg)

			if tt.wantPath == "" {
				assert.Empty(t, issues)
				return
			}
			require.NotEmpty(t, issues)
			paths := make([]string, len(issues))
			for i, issue := range issues {
				paths[i] = issue.Path
			}
			assert.Contains(t, paths, tt.wantPath)
		})
	}
}
