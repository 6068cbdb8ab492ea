package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ticketflow/backend/internal/domain/credential"
	"github.com/ticketflow/backend/internal/domain/shared"
	"github.com/ticketflow/backend/internal/domain/ticket"
	"github.com/ticketflow/backend/internal/infrastructure/llm"
	"go.uber.org/zap"
)

// systemPrompt is the fixed instruction turn for document analysis. The
// model is asked for a JSON object so the completion can be requested in
// JSON-constrained mode.
const systemPrompt = `You are a helpful AI assistant that analyzes documents and creates structured Jira tickets.
For the given document:
1. Identify distinct tasks, features, or issues that should be tracked
2. Create Jira tickets for each item with:
   - A clear, concise title
   - A detailed description
   - Appropriate type (task, story, or bug)
   - Priority level (low, medium, high)
   - Story point estimate (optional)
3. Focus on actionable items and ensure each ticket is independent
4. Include acceptance criteria in the description where applicable

Return a JSON object with this exact structure:
{
  "tickets": [
    {
      "title": "string",
      "description": "string",
      "type": "task" | "story" | "bug",
      "priority": "low" | "medium" | "high",
      "estimatedPoints": number (optional)
    }
  ]
}`

// CompletionClient is the language-model call the generator depends on
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, apiKey string, req llm.ChatCompletionRequest) (string, error)
}

// GeneratorService turns document text into draft tickets via the user's
// stored language-model credential. Drafts are returned to the caller for
// review and never persisted.
type GeneratorService struct {
	modelRepo credential.ModelCredentialRepository
	client    CompletionClient
	logger    *zap.Logger
}

// NewGeneratorService creates a new generator service
func NewGeneratorService(
	modelRepo credential.ModelCredentialRepository,
	client CompletionClient,
	logger *zap.Logger,
) *GeneratorService {
	return &GeneratorService{
		modelRepo: modelRepo,
		client:    client,
		logger:    logger,
	}
}

// Generate sends the document to the model provider and parses the
// completion into draft tickets. The credential is loaded fresh on every
// call; when none is stored the provider is never contacted.
func (s *GeneratorService) Generate(ctx context.Context, userID uuid.UUID, content string) ([]ticket.Draft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document content is required")
	}

	cred, err := s.modelRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CREDENTIAL_MISSING", "No API key found. Please add an API key first.")
		}
		s.logger.Error("Failed to load model credential", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load API key")
	}

	completion, err := s.client.CreateChatCompletion(ctx, cred.Key, llm.ChatCompletionRequest{
		Model: cred.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: content},
		},
		ResponseFormat: llm.JSONObjectFormat(),
	})
	if err != nil {
		s.logger.Error("Completion request failed",
			zap.String("user_id", userID.String()),
			zap.String("model", cred.Model),
			zap.Error(err))
		return nil, shared.ErrGenerationFailed
	}

	drafts, err := parseDrafts(completion)
	if err != nil {
		s.logger.Error("Failed to parse completion",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, shared.ErrGenerationFailed
	}

	s.logger.Info("Tickets generated",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(drafts)))

	return drafts, nil
}

// parseDrafts parses the completion text. The model output is not
// guaranteed well-formed: anything that is not a JSON object with a
// tickets array of valid drafts is rejected.
func parseDrafts(completion string) ([]ticket.Draft, error) {
	var parsed struct {
		Tickets *[]ticket.Draft `json:"tickets"`
	}
	if err := json.Unmarshal([]byte(completion), &parsed); err != nil {
		return nil, err
	}
	if parsed.Tickets == nil {
		return nil, errors.New("completion is missing the tickets array")
	}

	drafts := *parsed.Tickets
	for i := range drafts {
		if err := drafts[i].Validate(); err != nil {
			return nil, err
		}
	}
	return drafts, nil
}
