package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/soyeahso/advisor/internal/domain"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIClient is the direct-mode adapter: bearer credential, model name in
// the request body.
type OpenAIClient struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewOpenAI creates a direct-mode client for the given key and model.
func NewOpenAI(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: openAIEndpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *OpenAIClient) Name() string { return "OpenAI" }

func (c *OpenAIClient) Complete(ctx context.Context, system string, history []domain.Message) (string, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    buildMessages(system, history),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}

	req, err := newJSONRequest(ctx, c.endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return doCompletion(c.client, req)
}

// newJSONRequest builds a POST request with a JSON body.
func newJSONRequest(ctx context.Context, endpoint string, body chatRequest) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &UpstreamError{Message: "encoding request: " + err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &UpstreamError{Message: "creating request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// doCompletion executes the request and extracts the first choice's content.
func doCompletion(client *http.Client, req *http.Request) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Status: resp.StatusCode, Message: "reading response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Status: resp.StatusCode, Message: upstreamMessage(data)}
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &UpstreamError{Status: resp.StatusCode, Message: "parsing response: " + err.Error()}
	}
	if len(out.Choices) == 0 {
		return "", &UpstreamError{Status: resp.StatusCode, Message: "no choices in response"}
	}
	return out.Choices[0].Message.Content, nil
}

// upstreamMessage pulls the provider's error message out of an error body,
// falling back to the raw body.
func upstreamMessage(data []byte) string {
	var out chatResponse
	if err := json.Unmarshal(data, &out); err == nil && out.Error != nil && out.Error.Message != "" {
		return out.Error.Message
	}
	return string(data)
}
