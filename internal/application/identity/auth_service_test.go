package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ticketflow/backend/internal/domain/identity"
	"github.com/ticketflow/backend/internal/domain/shared"
	"github.com/ticketflow/backend/internal/infrastructure/auth"
	"github.com/ticketflow/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type fakeBlacklist struct {
	added map[string]time.Duration
	err   error
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{added: make(map[string]time.Duration)}
}

func (f *fakeBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.added[jti] = ttl
	return nil
}

func (f *fakeBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	_, ok := f.added[jti]
	return ok, nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "ticketflow-test",
	})
}

func newTestService(repo identity.UserRepository, blacklist auth.TokenBlacklist) *AuthService {
	return NewAuthService(repo, testJWTService(), blacklist, zap.NewNop())
}

func testUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("alice", "alice@example.com", "correct-horse")
	require.NoError(t, err)
	return user
}

func TestRegister_Success(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	svc := newTestService(repo, nil)
	dto, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", dto.Username)
	assert.Equal(t, "alice@example.com", dto.Email)
	assert.NotEqual(t, uuid.Nil, dto.ID)
	repo.AssertExpectations(t)
}

func TestRegister_UsernameTaken(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)

	svc := newTestService(repo, nil)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Password: "correct-horse",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegister_InvalidInputNotSaved(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("ExistsByUsername", mock.Anything, "ab").Return(false, nil)

	svc := newTestService(repo, nil)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ab",
		Password: "correct-horse",
	})

	require.Error(t, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	user := testUser(t)
	repo := new(MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	svc := newTestService(repo, nil)
	result, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLogin_UnknownUserAndWrongPasswordSameMessage(t *testing.T) {
	user := testUser(t)

	unknownRepo := new(MockUserRepository)
	unknownRepo.On("FindByUsername", mock.Anything, "nobody").Return(nil, shared.ErrNotFound)
	_, unknownErr := newTestService(unknownRepo, nil).Login(context.Background(), LoginInput{
		Username: "nobody",
		Password: "correct-horse",
	})

	wrongRepo := new(MockUserRepository)
	wrongRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	_, wrongErr := newTestService(wrongRepo, nil).Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "wrong-password",
	})

	var d1, d2 *shared.DomainError
	require.ErrorAs(t, unknownErr, &d1)
	require.ErrorAs(t, wrongErr, &d2)
	assert.Equal(t, "UNAUTHORIZED", d1.Code)
	assert.Equal(t, d1.Message, d2.Message)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	user := testUser(t)
	user.Status = identity.UserStatusDeactivated

	repo := new(MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	svc := newTestService(repo, nil)
	_, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "correct-horse",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestLogin_UpdateFailureDoesNotBlock(t *testing.T) {
	user := testUser(t)
	repo := new(MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(errors.New("connection reset"))

	svc := newTestService(repo, nil)
	result, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

func TestRefresh_Success(t *testing.T) {
	user := testUser(t)
	repo := new(MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	svc := newTestService(repo, nil)
	login, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, user.ID, refreshed.User.ID)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	user := testUser(t)
	repo := new(MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	svc := newTestService(repo, nil)
	login, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), login.AccessToken)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc := newTestService(new(MockUserRepository), nil)
	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	require.Error(t, err)
}

func TestLogout_BlacklistsJTI(t *testing.T) {
	blacklist := newFakeBlacklist()
	svc := newTestService(new(MockUserRepository), blacklist)

	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}

	require.NoError(t, svc.Logout(context.Background(), claims))

	ttl, ok := blacklist.added["jti-123"]
	require.True(t, ok)
	assert.Greater(t, ttl, 9*time.Minute)
}

func TestLogout_BlacklistFailure(t *testing.T) {
	blacklist := newFakeBlacklist()
	blacklist.err = errors.New("redis unavailable")
	svc := newTestService(new(MockUserRepository), blacklist)

	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}

	err := svc.Logout(context.Background(), claims)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
}

func TestLogout_NoBlacklistConfigured(t *testing.T) {
	svc := newTestService(new(MockUserRepository), nil)
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-123"},
	}
	require.NoError(t, svc.Logout(context.Background(), claims))
}
