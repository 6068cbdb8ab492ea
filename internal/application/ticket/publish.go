package ticket

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ticketflow/backend/internal/domain/credential"
	"github.com/ticketflow/backend/internal/domain/shared"
	"github.com/ticketflow/backend/internal/domain/ticket"
	"github.com/ticketflow/backend/internal/infrastructure/jira"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentCreates bounds the fan-out against the ticketing vendor
const maxConcurrentCreates = 8

// IssueCreator is the vendor call the publisher depends on
type IssueCreator interface {
	CreateIssue(ctx context.Context, conn jira.Connection, fields jira.IssueFields) (*jira.CreatedIssue, error)
}

// PublisherService pushes caller-approved drafts into Jira. Each draft is
// created independently: one failing creation never aborts or rolls back
// the others, and the report preserves the caller's input order.
type PublisherService struct {
	jiraRepo credential.JiraCredentialRepository
	client   IssueCreator
	logger   *zap.Logger
}

// NewPublisherService creates a new publisher service
func NewPublisherService(
	jiraRepo credential.JiraCredentialRepository,
	client IssueCreator,
	logger *zap.Logger,
) *PublisherService {
	return &PublisherService{
		jiraRepo: jiraRepo,
		client:   client,
		logger:   logger,
	}
}

// Publish creates one Jira issue per draft, concurrently, and reports
// per-ticket outcomes. The Jira credential is loaded fresh on every call;
// when none is stored no per-ticket call is attempted.
func (s *PublisherService) Publish(ctx context.Context, userID uuid.UUID, drafts []ticket.Draft) (*ticket.PublishReport, error) {
	if len(drafts) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "At least one ticket is required")
	}
	for i := range drafts {
		if err := drafts[i].Validate(); err != nil {
			return nil, err
		}
	}

	cred, err := s.jiraRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CREDENTIAL_MISSING", "Jira credentials not found. Please set up your Jira credentials first.")
		}
		s.logger.Error("Failed to load Jira credential", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load Jira credentials")
	}

	conn := jira.Connection{
		Domain:   cred.Domain,
		Email:    cred.Email,
		APIToken: cred.APIToken,
	}

	// Each task writes only its own slot; results join positionally.
	results := make([]ticket.PublishResult, len(drafts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCreates)

	for i := range drafts {
		i := i
		g.Go(func() error {
			results[i] = s.createOne(gctx, conn, cred.ProjectKey, drafts[i])
			return nil
		})
	}
	// Tasks never return errors; failures land in their result slot.
	_ = g.Wait()

	report := &ticket.PublishReport{Results: results}
	s.logger.Info("Publish completed",
		zap.String("user_id", userID.String()),
		zap.Int("total", len(results)),
		zap.Int("failed", report.FailedCount()))

	return report, nil
}

// createOne performs a single create-issue call and converts the outcome
// into a result record
func (s *PublisherService) createOne(ctx context.Context, conn jira.Connection, projectKey string, draft ticket.Draft) ticket.PublishResult {
	fields := jira.IssueFields{
		Project:     jira.ProjectRef{Key: projectKey},
		Summary:     draft.Title,
		Description: draft.Description,
		IssueType:   jira.IssueTypeRef{Name: draft.Type.IssueTypeName()},
		StoryPoints: draft.EstimatedPoints,
	}

	created, err := s.client.CreateIssue(ctx, conn, fields)
	if err != nil {
		s.logger.Warn("Issue creation failed",
			zap.String("title", draft.Title),
			zap.String("project_key", projectKey),
			zap.Error(err))
		return ticket.PublishResult{
			Title:  draft.Title,
			Status: ticket.PublishStatusFailed,
			Error:  err.Error(),
		}
	}

	return ticket.PublishResult{
		ID:       created.ID,
		Key:      created.Key,
		Title:    draft.Title,
		Status:   ticket.PublishStatusCreated,
		Priority: draft.Priority,
	}
}
