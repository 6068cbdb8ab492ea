package credential

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ticketflow/backend/internal/domain/shared"
)

// ProjectConfigMaxAge is how long a cached project configuration is
// served before it is refetched from Jira.
const ProjectConfigMaxAge = 24 * time.Hour

// IssueType is one issue type available in the user's Jira project
type IssueType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Subtask     bool   `json:"subtask"`
}

// ProjectConfig is a cached snapshot of the user's Jira project
// configuration. One per Jira credential; UpdatedAt drives freshness.
type ProjectConfig struct {
	shared.BaseEntity
	JiraCredentialID uuid.UUID
	ProjectKey       string
	ProjectName      string
	IssueTypes       []IssueType
}

// NewProjectConfig creates a project configuration snapshot for the
// given Jira credential
func NewProjectConfig(credentialID uuid.UUID, projectKey, projectName string, issueTypes []IssueType) (*ProjectConfig, error) {
	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Project key is required")
	}
	return &ProjectConfig{
		BaseEntity:       shared.NewBaseEntity(),
		JiraCredentialID: credentialID,
		ProjectKey:       projectKey,
		ProjectName:      strings.TrimSpace(projectName),
		IssueTypes:       issueTypes,
	}, nil
}

// Refresh replaces the snapshot contents and marks it as just fetched
func (c *ProjectConfig) Refresh(projectKey, projectName string, issueTypes []IssueType) {
	c.ProjectKey = strings.TrimSpace(projectKey)
	c.ProjectName = strings.TrimSpace(projectName)
	c.IssueTypes = issueTypes
	c.Touch()
}

// FreshAt reports whether the snapshot is recent enough to serve
// without refetching
func (c *ProjectConfig) FreshAt(now time.Time) bool {
	return now.Sub(c.UpdatedAt) < ProjectConfigMaxAge
}
