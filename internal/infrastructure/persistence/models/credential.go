package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/ticketflow/backend/internal/domain/credential"
)

// ModelCredentialModel is the persistence model for language-model credentials.
type ModelCredentialModel struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	Key    string    `gorm:"type:text;not null"`
	Model  string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ModelCredentialModel) TableName() string {
	return "model_credentials"
}

// ToDomain converts the persistence model to a domain ModelCredential
func (m *ModelCredentialModel) ToDomain() *credential.ModelCredential {
	return &credential.ModelCredential{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Key:        m.Key,
		Model:      m.Model,
	}
}

// FromDomain populates the persistence model from a domain ModelCredential
func (m *ModelCredentialModel) FromDomain(c *credential.ModelCredential) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.UserID = c.UserID
	m.Key = c.Key
	m.Model = c.Model
}

// JiraCredentialModel is the persistence model for Jira credentials.
// user_id is unique: one Jira connection per user.
type JiraCredentialModel struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Domain     string    `gorm:"type:varchar(255);not null"`
	Email      string    `gorm:"type:varchar(200);not null"`
	APIToken   string    `gorm:"type:text;not null"`
	ProjectKey string    `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (JiraCredentialModel) TableName() string {
	return "jira_credentials"
}

// ToDomain converts the persistence model to a domain JiraCredential
func (m *JiraCredentialModel) ToDomain() *credential.JiraCredential {
	return &credential.JiraCredential{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Domain:     m.Domain,
		Email:      m.Email,
		APIToken:   m.APIToken,
		ProjectKey: m.ProjectKey,
	}
}

// FromDomain populates the persistence model from a domain JiraCredential
func (m *JiraCredentialModel) FromDomain(c *credential.JiraCredential) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.UserID = c.UserID
	m.Domain = c.Domain
	m.Email = c.Email
	m.APIToken = c.APIToken
	m.ProjectKey = c.ProjectKey
}

// JiraProjectConfigModel is the persistence model for cached Jira
// project configurations. jira_credential_id is unique: one snapshot
// per connection. IssueTypes is stored as a jsonb document.
type JiraProjectConfigModel struct {
	BaseModel
	JiraCredentialID uuid.UUID `gorm:"column:jira_credential_id;type:uuid;not null;uniqueIndex"`
	ProjectKey       string    `gorm:"type:varchar(50);not null"`
	ProjectName      string    `gorm:"type:varchar(255);not null"`
	IssueTypes       string    `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (JiraProjectConfigModel) TableName() string {
	return "jira_project_configs"
}

// ToDomain converts the persistence model to a domain ProjectConfig
func (m *JiraProjectConfigModel) ToDomain() (*credential.ProjectConfig, error) {
	var issueTypes []credential.IssueType
	if m.IssueTypes != "" {
		if err := json.Unmarshal([]byte(m.IssueTypes), &issueTypes); err != nil {
			return nil, err
		}
	}
	return &credential.ProjectConfig{
		BaseEntity:       m.BaseModel.ToDomain(),
		JiraCredentialID: m.JiraCredentialID,
		ProjectKey:       m.ProjectKey,
		ProjectName:      m.ProjectName,
		IssueTypes:       issueTypes,
	}, nil
}

// FromDomain populates the persistence model from a domain ProjectConfig
func (m *JiraProjectConfigModel) FromDomain(c *credential.ProjectConfig) error {
	issueTypes, err := json.Marshal(c.IssueTypes)
	if err != nil {
		return err
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	m.JiraCredentialID = c.JiraCredentialID
	m.ProjectKey = c.ProjectKey
	m.ProjectName = c.ProjectName
	m.IssueTypes = string(issueTypes)
	return nil
}
