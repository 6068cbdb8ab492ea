package credential

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ticketflow/backend/internal/domain/credential"
	"github.com/ticketflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service manages the user's stored vendor credentials. Secrets (the LLM
// key and the Jira API token) are accepted on write and never returned in
// any read path.
type Service struct {
	modelRepo credential.ModelCredentialRepository
	jiraRepo  credential.JiraCredentialRepository
	logger    *zap.Logger
}

// NewService creates a new credential service
func NewService(
	modelRepo credential.ModelCredentialRepository,
	jiraRepo credential.JiraCredentialRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		modelRepo: modelRepo,
		jiraRepo:  jiraRepo,
		logger:    logger,
	}
}

// ModelCredentialDTO is the redacted read shape for model credentials
type ModelCredentialDTO struct {
	ID        uuid.UUID `json:"id"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// JiraCredentialDTO is the redacted read shape for the Jira connection
type JiraCredentialDTO struct {
	ID         uuid.UUID `json:"id"`
	Domain     string    `json:"domain"`
	Email      string    `json:"email"`
	ProjectKey string    `json:"project_key"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SaveModelCredentialInput contains input for storing a model credential
type SaveModelCredentialInput struct {
	UserID uuid.UUID
	Key    string
	Model  string
}

// SaveJiraCredentialInput contains input for storing the Jira connection
type SaveJiraCredentialInput struct {
	UserID     uuid.UUID
	Domain     string
	Email      string
	APIToken   string
	ProjectKey string
}

// SaveModelCredential stores a new language-model credential
func (s *Service) SaveModelCredential(ctx context.Context, input SaveModelCredentialInput) (*ModelCredentialDTO, error) {
	cred, err := credential.NewModelCredential(input.UserID, input.Key, input.Model)
	if err != nil {
		return nil, err
	}

	if err := s.modelRepo.Save(ctx, cred); err != nil {
		s.logger.Error("Failed to save model credential", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save API key")
	}

	s.logger.Info("Model credential saved",
		zap.String("user_id", input.UserID.String()),
		zap.String("model", cred.Model))

	return &ModelCredentialDTO{ID: cred.ID, Model: cred.Model, CreatedAt: cred.CreatedAt}, nil
}

// ListModelCredentials returns the user's stored model credentials
// without the key material
func (s *Service) ListModelCredentials(ctx context.Context, userID uuid.UUID) ([]ModelCredentialDTO, error) {
	creds, err := s.modelRepo.FindAllByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list model credentials", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list API keys")
	}

	dtos := make([]ModelCredentialDTO, len(creds))
	for i, c := range creds {
		dtos[i] = ModelCredentialDTO{ID: c.ID, Model: c.Model, CreatedAt: c.CreatedAt}
	}
	return dtos, nil
}

// DeleteModelCredential removes a model credential owned by the user
func (s *Service) DeleteModelCredential(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.modelRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "API key not found")
		}
		s.logger.Error("Failed to delete model credential", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete API key")
	}
	return nil
}

// SaveJiraCredential creates or replaces the user's Jira connection
func (s *Service) SaveJiraCredential(ctx context.Context, input SaveJiraCredentialInput) (*JiraCredentialDTO, error) {
	cred, err := credential.NewJiraCredential(input.UserID, input.Domain, input.Email, input.APIToken, input.ProjectKey)
	if err != nil {
		return nil, err
	}

	if err := s.jiraRepo.Upsert(ctx, cred); err != nil {
		s.logger.Error("Failed to save Jira credential", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save Jira credentials")
	}

	s.logger.Info("Jira credential saved",
		zap.String("user_id", input.UserID.String()),
		zap.String("domain", cred.Domain),
		zap.String("project_key", cred.ProjectKey))

	return &JiraCredentialDTO{
		ID:         cred.ID,
		Domain:     cred.Domain,
		Email:      cred.Email,
		ProjectKey: cred.ProjectKey,
		UpdatedAt:  cred.UpdatedAt,
	}, nil
}

// GetJiraCredential returns the user's Jira connection without the token
func (s *Service) GetJiraCredential(ctx context.Context, userID uuid.UUID) (*JiraCredentialDTO, error) {
	cred, err := s.jiraRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Jira credentials not found")
		}
		s.logger.Error("Failed to load Jira credential", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load Jira credentials")
	}

	return &JiraCredentialDTO{
		ID:         cred.ID,
		Domain:     cred.Domain,
		Email:      cred.Email,
		ProjectKey: cred.ProjectKey,
		UpdatedAt:  cred.UpdatedAt,
	}, nil
}

// DeleteJiraCredential removes the user's Jira connection
func (s *Service) DeleteJiraCredential(ctx context.Context, userID uuid.UUID) error {
	if err := s.jiraRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Jira credentials not found")
		}
		s.logger.Error("Failed to delete Jira credential", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete Jira credentials")
	}
	return nil
}
