package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"
)

// maxResponseSize limits the vendor response body size
const maxResponseSize = 1 << 20 // 1MB

// Client is a Jira Cloud REST client. Connection credentials are per-user
// data and are passed per call, never held on the client.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new Jira client
func NewClient(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithHTTPClient creates a Jira client with a caller-supplied
// HTTP client
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Connection identifies a Jira Cloud site and the account to act as
type Connection struct {
	Domain   string // bare host, e.g. "acme.atlassian.net"
	Email    string
	APIToken string
}

// CreateIssue creates a single issue and returns the vendor-assigned
// identifiers. A non-2xx response is returned as an error carrying the
// most specific message found in the vendor's error body.
func (c *Client) CreateIssue(ctx context.Context, conn Connection, fields IssueFields) (*CreatedIssue, error) {
	payload := createIssueRequest{Fields: fields}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode issue payload: %w", err)
	}

	url := fmt.Sprintf("https://%s/rest/api/2/issue", conn.Domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(conn.Email, conn.APIToken))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira issue: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read Jira response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s", errorMessageFromBody(respBody, defaultErrorMessage))
	}

	var created CreatedIssue
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("failed to decode Jira response: %w", err)
	}
	return &created, nil
}

// GetProjectMeta fetches the create metadata for a single project and
// returns its entry, including the issue types new issues may use.
func (c *Client) GetProjectMeta(ctx context.Context, conn Connection, projectKey string) (*ProjectMeta, error) {
	url := fmt.Sprintf(
		"https://%s/rest/api/2/issue/createmeta?projectKeys=%s&expand=projects.issuetypes.fields",
		conn.Domain, neturl.QueryEscape(projectKey),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(conn.Email, conn.APIToken))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Jira project metadata: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read Jira response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s", errorMessageFromBody(respBody, defaultMetaErrorMessage))
	}

	var meta createMetaResponse
	if err := json.Unmarshal(respBody, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode Jira response: %w", err)
	}
	if len(meta.Projects) == 0 {
		return nil, fmt.Errorf("project %s not found in create metadata", projectKey)
	}
	return &meta.Projects[0], nil
}

// basicAuth builds the base64-encoded email:apiToken pair
func basicAuth(email, apiToken string) string {
	return base64.StdEncoding.EncodeToString([]byte(email + ":" + apiToken))
}

const (
	defaultErrorMessage     = "Failed to create Jira ticket"
	defaultMetaErrorMessage = "Failed to fetch Jira project configuration"
)

// errorMessageFromBody extracts a human-readable message from a Jira
// error body, checking the error-messages list, then the field-keyed
// errors map, then the generic message field.
func errorMessageFromBody(body []byte, fallback string) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fallback
	}
	if len(parsed.ErrorMessages) > 0 && parsed.ErrorMessages[0] != "" {
		return parsed.ErrorMessages[0]
	}
	for _, msg := range parsed.Errors {
		if msg != "" {
			return msg
		}
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return fallback
}
