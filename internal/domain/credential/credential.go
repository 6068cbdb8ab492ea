package credential

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ticketflow/backend/internal/domain/shared"
)

// ModelCredential holds a user's language-model API key and the model
// name completions should be requested with. A user may store several,
// but the pipeline uses the most recently created one.
type ModelCredential struct {
	shared.BaseEntity
	UserID uuid.UUID
	Key    string
	Model  string
}

// NewModelCredential creates a model credential owned by the given user
func NewModelCredential(userID uuid.UUID, key, model string) (*ModelCredential, error) {
	if strings.TrimSpace(key) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "API key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Model name is required")
	}
	return &ModelCredential{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Key:        key,
		Model:      strings.TrimSpace(model),
	}, nil
}

// JiraCredential holds a user's Jira Cloud connection. Exactly one per
// user; saving again replaces the previous connection.
type JiraCredential struct {
	shared.BaseEntity
	UserID     uuid.UUID
	Domain     string
	Email      string
	APIToken   string
	ProjectKey string
}

// NewJiraCredential creates a Jira credential owned by the given user
func NewJiraCredential(userID uuid.UUID, domain, email, apiToken, projectKey string) (*JiraCredential, error) {
	domain = normalizeDomain(domain)
	if domain == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Jira domain is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Jira account email is required")
	}
	if strings.TrimSpace(apiToken) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Jira API token is required")
	}
	projectKey = strings.ToUpper(strings.TrimSpace(projectKey))
	if projectKey == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Jira project key is required")
	}
	return &JiraCredential{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Domain:     domain,
		Email:      strings.TrimSpace(email),
		APIToken:   apiToken,
		ProjectKey: projectKey,
	}, nil
}

// Replace applies new connection values while keeping identity and ownership
func (c *JiraCredential) Replace(domain, email, apiToken, projectKey string) error {
	next, err := NewJiraCredential(c.UserID, domain, email, apiToken, projectKey)
	if err != nil {
		return err
	}
	c.Domain = next.Domain
	c.Email = next.Email
	c.APIToken = next.APIToken
	c.ProjectKey = next.ProjectKey
	c.Touch()
	return nil
}

// normalizeDomain strips scheme and trailing slashes so the stored value
// is always a bare host like "acme.atlassian.net"
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimSuffix(domain, "/")
}
