package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soyeahso/advisor/internal/domain"
)

// AzureClient is the managed-endpoint adapter: api-key header, deployment in
// the URL path, API version as a query parameter, no model field in the body.
type AzureClient struct {
	apiKey   string
	endpoint string // fully built request target
	client   *http.Client
}

// NewAzure creates a managed-endpoint client. The request target is built
// once from the base endpoint, the fixed deployments path, and the
// deployment identifier.
func NewAzure(endpoint, apiKey, deployment, apiVersion string) *AzureClient {
	target := strings.TrimRight(endpoint, "/") +
		"/openai/deployments/" + url.PathEscape(deployment) +
		"/chat/completions?api-version=" + url.QueryEscape(apiVersion)
	return &AzureClient{
		apiKey:   apiKey,
		endpoint: target,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *AzureClient) Name() string { return "Azure OpenAI" }

func (c *AzureClient) Complete(ctx context.Context, system string, history []domain.Message) (string, error) {
	// No Model: the deployment already selects it upstream.
	body := chatRequest{
		Messages:    buildMessages(system, history),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}

	req, err := newJSONRequest(ctx, c.endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("api-key", c.apiKey)

	return doCompletion(c.client, req)
}
