package credential

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ticketflow/backend/internal/domain/credential"
	"github.com/ticketflow/backend/internal/domain/shared"
	"github.com/ticketflow/backend/internal/infrastructure/jira"
	"go.uber.org/zap"
)

// ProjectMetaFetcher is the vendor call the project-config service
// depends on
type ProjectMetaFetcher interface {
	GetProjectMeta(ctx context.Context, conn jira.Connection, projectKey string) (*jira.ProjectMeta, error)
}

// ProjectConfigService serves the issue types available in the user's
// Jira project. Snapshots are cached in the store and refetched from
// Jira once they are older than credential.ProjectConfigMaxAge.
type ProjectConfigService struct {
	jiraRepo   credential.JiraCredentialRepository
	configRepo credential.ProjectConfigRepository
	client     ProjectMetaFetcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewProjectConfigService creates a new project-config service
func NewProjectConfigService(
	jiraRepo credential.JiraCredentialRepository,
	configRepo credential.ProjectConfigRepository,
	client ProjectMetaFetcher,
	logger *zap.Logger,
) *ProjectConfigService {
	return &ProjectConfigService{
		jiraRepo:   jiraRepo,
		configRepo: configRepo,
		client:     client,
		logger:     logger,
		now:        time.Now,
	}
}

// ProjectConfigDTO is the read shape for a project configuration.
// Cached reports whether the snapshot was served without a vendor call.
type ProjectConfigDTO struct {
	ProjectKey  string                 `json:"project_key"`
	ProjectName string                 `json:"project_name"`
	IssueTypes  []credential.IssueType `json:"issue_types"`
	Cached      bool                   `json:"cached"`
}

// GetProjectConfig returns the user's Jira project configuration,
// serving the cached snapshot when it is fresh and refetching from
// Jira otherwise. The Jira credential is loaded fresh on every call.
func (s *ProjectConfigService) GetProjectConfig(ctx context.Context, userID uuid.UUID) (*ProjectConfigDTO, error) {
	cred, err := s.jiraRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CREDENTIAL_MISSING", "Jira credentials not found. Please set up your Jira credentials first.")
		}
		s.logger.Error("Failed to load Jira credential", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load Jira credentials")
	}

	cached, err := s.configRepo.FindByCredential(ctx, cred.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load cached project configuration", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load project configuration")
	}

	if cached != nil && cached.FreshAt(s.now()) {
		return &ProjectConfigDTO{
			ProjectKey:  cached.ProjectKey,
			ProjectName: cached.ProjectName,
			IssueTypes:  cached.IssueTypes,
			Cached:      true,
		}, nil
	}

	conn := jira.Connection{
		Domain:   cred.Domain,
		Email:    cred.Email,
		APIToken: cred.APIToken,
	}
	meta, err := s.client.GetProjectMeta(ctx, conn, cred.ProjectKey)
	if err != nil {
		s.logger.Error("Failed to fetch project metadata",
			zap.String("user_id", userID.String()),
			zap.String("project_key", cred.ProjectKey),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to fetch Jira project configuration")
	}

	issueTypes := make([]credential.IssueType, len(meta.IssueTypes))
	for i, t := range meta.IssueTypes {
		issueTypes[i] = credential.IssueType{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Subtask:     t.Subtask,
		}
	}

	if cached != nil {
		cached.Refresh(meta.Key, meta.Name, issueTypes)
	} else {
		cached, err = credential.NewProjectConfig(cred.ID, meta.Key, meta.Name, issueTypes)
		if err != nil {
			return nil, err
		}
	}

	if err := s.configRepo.Upsert(ctx, cached); err != nil {
		s.logger.Error("Failed to store project configuration", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store project configuration")
	}

	s.logger.Info("Project configuration refreshed",
		zap.String("user_id", userID.String()),
		zap.String("project_key", cached.ProjectKey),
		zap.Int("issue_types", len(issueTypes)))

	return &ProjectConfigDTO{
		ProjectKey:  cached.ProjectKey,
		ProjectName: cached.ProjectName,
		IssueTypes:  cached.IssueTypes,
		Cached:      false,
	}, nil
}
