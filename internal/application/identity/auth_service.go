package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ticketflow/backend/internal/domain/identity"
	"github.com/ticketflow/backend/internal/domain/shared"
	"github.com/ticketflow/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles registration, authentication and session lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// RegisterInput contains input for account creation
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput contains input for authentication
type LoginInput struct {
	Username string
	Password string
}

// AuthUserDTO is the user payload returned with tokens
type AuthUserDTO struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name"`
}

// LoginResult carries tokens and the authenticated user
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  AuthUserDTO
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthUserDTO, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Error("Failed to check username existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already exists")
	}

	user, err := identity.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &AuthUserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}

// Login authenticates the user and issues a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Same message for unknown user and wrong password
			return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid username or password")
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to authenticate")
	}

	if !user.VerifyPassword(input.Password) {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid username or password")
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("FORBIDDEN", "Account is deactivated")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate tokens")
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Login tracking failure should not block authentication
		s.logger.Warn("Failed to record login time", zap.Error(err))
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User: AuthUserDTO{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	}, nil
}

// Refresh validates a refresh token and issues a fresh token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("FORBIDDEN", "Account is deactivated")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate tokens")
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User: AuthUserDTO{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	}, nil
}

// Logout revokes the access token by blacklisting its JTI for the
// remainder of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}
	return nil
}
