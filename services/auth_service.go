package services

import (
	"context"
	"errors"
	"strings"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles account registration and login.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *ServiceError)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, *TokenPair, *ServiceError)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, *ServiceError)
}

type authServiceImpl struct {
	users     repository.UserRepository
	tokens    TokenIssuer
	passwords *PasswordValidator
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		users:     users,
		tokens:    tokens,
		passwords: NewPasswordValidator(),
		logger:    logger,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *ServiceError) {
	if err := s.passwords.ValidatePassword(req.Password); err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: err.Error()}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, &ServiceError{StatusCode: 409, Message: "Email already registered"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Failed to look up email", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create account"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create account"}
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    email,
		Password: string(hashed),
		Phone:    req.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Email already registered"}
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create account"}
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.User, *TokenPair, *ServiceError) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, nil, &ServiceError{StatusCode: 401, Message: "Invalid email or password"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, &ServiceError{StatusCode: 401, Message: "Invalid email or password"}
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID.String(), user.Email)
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, nil, &ServiceError{StatusCode: 500, Message: "Failed to log in"}
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *ServiceError) {
	claims, err := s.tokens.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return nil, &ServiceError{StatusCode: 401, Message: "Invalid refresh token"}
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, &ServiceError{StatusCode: 401, Message: "Invalid refresh token"}
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, &ServiceError{StatusCode: 401, Message: "Invalid refresh token"}
	}

	user, findErr := s.users.FindByID(ctx, userID)
	if findErr != nil {
		return nil, &ServiceError{StatusCode: 401, Message: "User not found"}
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID.String(), user.Email)
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to refresh session"}
	}
	return pair, nil
}
