package config

// Config is the root configuration for the advisor server.
type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Provider ProviderConfig `yaml:"provider,omitempty"`
	Session  SessionConfig  `yaml:"session,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	PublicDir      string   `yaml:"publicDir,omitempty"`      // static assets; empty disables
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"` // CORS; empty denies cross-origin
}

// ProviderConfig selects and authenticates the upstream completion provider.
// Managed-endpoint (Azure) mode is active exactly when both Endpoint and
// APIKey are set under azure; otherwise direct OpenAI mode is used. The
// choice is made once at startup and never re-evaluated per request.
type ProviderConfig struct {
	OpenAI OpenAIConfig `yaml:"openai,omitempty"`
	Azure  AzureConfig  `yaml:"azure,omitempty"`
}

// OpenAIConfig is the direct-mode provider configuration.
type OpenAIConfig struct {
	APIKey string `yaml:"apiKey,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// AzureConfig is the managed-endpoint provider configuration.
type AzureConfig struct {
	Endpoint   string `yaml:"endpoint,omitempty"`
	APIKey     string `yaml:"apiKey,omitempty"`
	Deployment string `yaml:"deployment,omitempty"`
	APIVersion string `yaml:"apiVersion,omitempty"`
}

// SessionConfig defines session storage behavior.
type SessionConfig struct {
	Store       string `yaml:"store,omitempty"` // "memory" | "sqlite"
	DBPath      string `yaml:"dbPath,omitempty"`
	MaxMessages int    `yaml:"maxMessages,omitempty"`
	IdleMinutes int    `yaml:"idleMinutes,omitempty"` // 0 disables eviction
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
}
