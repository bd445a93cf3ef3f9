package config

import (
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so API keys can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Provider.OpenAI.APIKey = expandEnvVars(cfg.Provider.OpenAI.APIKey)
	cfg.Provider.Azure.APIKey = expandEnvVars(cfg.Provider.Azure.APIKey)
	cfg.Provider.Azure.Endpoint = expandEnvVars(cfg.Provider.Azure.Endpoint)
}

// Load reads the config file, applies environment overrides, and returns a
// merged Config. A missing file produces defaults plus environment values.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields after YAML unmarshal.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Provider.OpenAI.Model == "" {
		cfg.Provider.OpenAI.Model = DefaultModel
	}
	if cfg.Provider.Azure.APIVersion == "" {
		cfg.Provider.Azure.APIVersion = DefaultAPIVersion
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
	}
	if cfg.Session.MaxMessages == 0 {
		cfg.Session.MaxMessages = DefaultMaxMessages
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides reads well-known environment variables and overrides
// config values. These names match the hosted deployment environment.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Provider.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Provider.OpenAI.Model = v
	}
	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		cfg.Provider.Azure.Endpoint = v
	}
	if v := os.Getenv("AZURE_OPENAI_KEY"); v != "" {
		cfg.Provider.Azure.APIKey = v
	}
	if v := os.Getenv("AZURE_OPENAI_DEPLOYMENT"); v != "" {
		cfg.Provider.Azure.Deployment = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_VERSION"); v != "" {
		cfg.Provider.Azure.APIVersion = v
	}
	if v := os.Getenv("ADVISOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ADVISOR_SESSION_STORE"); v != "" {
		cfg.Session.Store = v
	}
}
