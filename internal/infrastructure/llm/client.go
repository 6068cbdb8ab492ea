package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize limits the completion body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Client is a minimal chat-completions client for OpenAI-compatible
// providers. The API key is per-user data and is passed per call, never
// held on the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new completion client against the given base URL
// (e.g. "https://api.openai.com/v1")
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateChatCompletion sends a chat-completion request authenticated with
// the given API key and returns the first choice's content.
func (c *Client) CreateChatCompletion(ctx context.Context, apiKey string, req ChatCompletionRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider error (status %d): %s", resp.StatusCode, providerErrorMessage(respBody))
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion response contains no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// providerErrorMessage extracts the error message from a provider error
// body, falling back to the raw body
func providerErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}
