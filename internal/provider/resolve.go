package provider

import (
	"errors"

	"github.com/soyeahso/advisor/internal/config"
	"github.com/soyeahso/advisor/internal/logging"
)

// ErrNoCredentials is returned when neither provider mode is configured.
var ErrNoCredentials = errors.New("no provider credentials configured")

// Info describes the resolved provider for health reporting. Configuration
// holds presence flags only, never the credential values themselves.
type Info struct {
	Provider      string          `json:"provider"`
	Configuration map[string]bool `json:"configuration"`
}

// Resolve picks the active provider mode from configuration. Azure
// managed-endpoint mode wins exactly when both its endpoint and key are
// present; otherwise direct OpenAI mode is used. The result is fixed for
// the process lifetime.
func Resolve(cfg config.ProviderConfig, log *logging.Logger) (Client, Info, error) {
	log = log.Sub("provider")

	if cfg.Azure.Endpoint != "" && cfg.Azure.APIKey != "" {
		client := NewAzure(cfg.Azure.Endpoint, cfg.Azure.APIKey, cfg.Azure.Deployment, cfg.Azure.APIVersion)
		log.Info().
			Str("mode", client.Name()).
			Str("deployment", cfg.Azure.Deployment).
			Str("apiVersion", cfg.Azure.APIVersion).
			Msg("provider resolved")
		return client, Info{
			Provider: client.Name(),
			Configuration: map[string]bool{
				"endpoint":   true,
				"apiKey":     true,
				"deployment": cfg.Azure.Deployment != "",
				"apiVersion": cfg.Azure.APIVersion != "",
			},
		}, nil
	}

	if cfg.OpenAI.APIKey != "" {
		client := NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		log.Info().
			Str("mode", client.Name()).
			Str("model", cfg.OpenAI.Model).
			Msg("provider resolved")
		return client, Info{
			Provider: client.Name(),
			Configuration: map[string]bool{
				"apiKey": true,
				"model":  cfg.OpenAI.Model != "",
			},
		}, nil
	}

	return nil, Info{}, ErrNoCredentials
}
