package credential

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ticketflow/backend/internal/domain/credential"
	"github.com/ticketflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MockModelCredentialRepository is a mock implementation of credential.ModelCredentialRepository
type MockModelCredentialRepository struct {
	mock.Mock
}

func (m *MockModelCredentialRepository) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*credential.ModelCredential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credential.ModelCredential), args.Error(1)
}

func (m *MockModelCredentialRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]credential.ModelCredential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]credential.ModelCredential), args.Error(1)
}

func (m *MockModelCredentialRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*credential.ModelCredential, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credential.ModelCredential), args.Error(1)
}

func (m *MockModelCredentialRepository) Save(ctx context.Context, cred *credential.ModelCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockModelCredentialRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockJiraCredentialRepository is a mock implementation of credential.JiraCredentialRepository
type MockJiraCredentialRepository struct {
	mock.Mock
}

func (m *MockJiraCredentialRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*credential.JiraCredential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credential.JiraCredential), args.Error(1)
}

func (m *MockJiraCredentialRepository) Upsert(ctx context.Context, cred *credential.JiraCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockJiraCredentialRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestService(modelRepo credential.ModelCredentialRepository, jiraRepo credential.JiraCredentialRepository) *Service {
	return NewService(modelRepo, jiraRepo, zap.NewNop())
}

func TestSaveModelCredential_Success(t *testing.T) {
	userID := uuid.New()
	modelRepo := new(MockModelCredentialRepository)
	modelRepo.On("Save", mock.Anything, mock.AnythingOfType("*credential.ModelCredential")).Return(nil)

	svc := newTestService(modelRepo, new(MockJiraCredentialRepository))
	dto, err := svc.SaveModelCredential(context.Background(), SaveModelCredentialInput{
		UserID: userID,
		Key:    "sk-test-abc123",
		Model:  "gpt-4o",
	})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", dto.Model)
	assert.NotEqual(t, uuid.Nil, dto.ID)
	modelRepo.AssertExpectations(t)
}

func TestSaveModelCredential_InvalidInputNotSaved(t *testing.T) {
	modelRepo := new(MockModelCredentialRepository)
	svc := newTestService(modelRepo, new(MockJiraCredentialRepository))

	_, err := svc.SaveModelCredential(context.Background(), SaveModelCredentialInput{
		UserID: uuid.New(),
		Key:    "",
		Model:  "gpt-4o",
	})

	require.Error(t, err)
	modelRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestListModelCredentials_RedactsKeys(t *testing.T) {
	userID := uuid.New()
	stored, err := credential.NewModelCredential(userID, "sk-very-secret", "gpt-4o")
	require.NoError(t, err)

	modelRepo := new(MockModelCredentialRepository)
	modelRepo.On("FindAllByUser", mock.Anything, userID).Return([]credential.ModelCredential{*stored}, nil)

	svc := newTestService(modelRepo, new(MockJiraCredentialRepository))
	dtos, err := svc.ListModelCredentials(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, dtos, 1)

	// The serialized read shape must not carry the key material
	raw, err := json.Marshal(dtos[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk-very-secret")
	assert.Equal(t, stored.ID, dtos[0].ID)
}

func TestListModelCredentials_EmptyIsNotAnError(t *testing.T) {
	userID := uuid.New()
	modelRepo := new(MockModelCredentialRepository)
	modelRepo.On("FindAllByUser", mock.Anything, userID).Return([]credential.ModelCredential{}, nil)

	svc := newTestService(modelRepo, new(MockJiraCredentialRepository))
	dtos, err := svc.ListModelCredentials(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, dtos)
}

func TestDeleteModelCredential_NotFound(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	modelRepo := new(MockModelCredentialRepository)
	modelRepo.On("Delete", mock.Anything, userID, id).Return(shared.ErrNotFound)

	svc := newTestService(modelRepo, new(MockJiraCredentialRepository))
	err := svc.DeleteModelCredential(context.Background(), userID, id)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestSaveJiraCredential_NormalizesAndRedacts(t *testing.T) {
	userID := uuid.New()
	jiraRepo := new(MockJiraCredentialRepository)
	jiraRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*credential.JiraCredential")).Return(nil)

	svc := newTestService(new(MockModelCredentialRepository), jiraRepo)
	dto, err := svc.SaveJiraCredential(context.Background(), SaveJiraCredentialInput{
		UserID:     userID,
		Domain:     "https://acme.atlassian.net/",
		Email:      "dev@acme.io",
		APIToken:   "token-123",
		ProjectKey: "ops",
	})

	require.NoError(t, err)
	assert.Equal(t, "acme.atlassian.net", dto.Domain)
	assert.Equal(t, "OPS", dto.ProjectKey)

	raw, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "token-123")
}

func TestGetJiraCredential_NotFound(t *testing.T) {
	userID := uuid.New()
	jiraRepo := new(MockJiraCredentialRepository)
	jiraRepo.On("FindByUser", mock.Anything, userID).Return(nil, shared.ErrNotFound)

	svc := newTestService(new(MockModelCredentialRepository), jiraRepo)
	_, err := svc.GetJiraCredential(context.Background(), userID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestDeleteJiraCredential_Success(t *testing.T) {
	userID := uuid.New()
	jiraRepo := new(MockJiraCredentialRepository)
	jiraRepo.On("Delete", mock.Anything, userID).Return(nil)

	svc := newTestService(new(MockModelCredentialRepository), jiraRepo)
	require.NoError(t, svc.DeleteJiraCredential(context.Background(), userID))
	jiraRepo.AssertExpectations(t)
}
