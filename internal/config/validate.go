package config

import (
	"fmt"
	"strings"
)

// Issue describes a single validation problem.
type Issue struct {
	Path    string
	Message string
}

// Validate checks the configuration for problems that would prevent the
// server from operating. It returns all issues found, not just the first.
func Validate(cfg *Config) []Issue {
	var issues []Issue

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		issues = append(issues, Issue{
			Path:    "server.port",
			Message: fmt.Sprintf("invalid port %d", cfg.Server.Port),
		})
	}

	azure := cfg.Provider.Azure
	azureActive := azure.Endpoint != "" && azure.APIKey != ""

	// Half-configured Azure silently falls back to direct mode; make the
	// misconfiguration loud instead.
	if (azure.Endpoint != "") != (azure.APIKey != "") {
		issues = append(issues, Issue{
			Path:    "provider.azure",
			Message: "both endpoint and apiKey are required for Azure OpenAI mode",
		})
	}

	if azureActive {
		if azure.Deployment == "" {
			issues = append(issues, Issue{
				Path:    "provider.azure.deployment",
				Message: "deployment is required in Azure OpenAI mode",
			})
		}
		if !strings.HasPrefix(azure.Endpoint, "http://") && !strings.HasPrefix(azure.Endpoint, "https://") {
			issues = append(issues, Issue{
				Path:    "provider.azure.endpoint",
				Message: "endpoint must be an http(s) URL",
			})
		}
	} else if cfg.Provider.OpenAI.APIKey == "" {
		issues = append(issues, Issue{
			Path:    "provider.openai.apiKey",
			Message: "no provider credentials: set provider.openai.apiKey or configure Azure OpenAI",
		})
	}

	switch cfg.Session.Store {
	case "memory", "sqlite":
	default:
		issues = append(issues, Issue{
			Path:    "session.store",
			Message: fmt.Sprintf("unknown store %q (expected memory or sqlite)", cfg.Session.Store),
		})
	}

	if cfg.Session.MaxMessages < 2 {
		issues = append(issues, Issue{
			Path:    "session.maxMessages",
			Message: "maxMessages must hold at least one user/assistant pair",
		})
	}

	return issues
}
