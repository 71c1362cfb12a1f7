package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/logger"
	"drivoro-backend/internal/ratelimit"
	"drivoro-backend/internal/repository"
	"drivoro-backend/internal/security"
)

type authService struct {
	userRepo    repository.UserRepository
	tokens      security.TokenManager
	passLimiter ratelimit.Limiter
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, passLimiter ratelimit.Limiter) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		passLimiter: passLimiter,
	}
}

func (s *authService) Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error) {
	logger.EnterMethod("Signup", "email", email)

	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, "", "", fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", "", fmt.Errorf("%w: email %s is already registered", domain.ErrValidation, email)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, "", "", err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         domain.RoleGuest,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}

	logger.ExitMethod("Signup", "user_id", user.ID)
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	logger.EnterMethod("Login", "email", email)

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
		}
		return nil, "", "", err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, "", "", fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	if user.IsBlocked {
		return nil, "", "", fmt.Errorf("%w: account is blocked", domain.ErrForbidden)
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}

	logger.ExitMethod("Login", "user_id", user.ID)
	return user, access, refresh, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", domain.ErrUnauthorized, err)
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", fmt.Errorf("%w: %s", domain.ErrUnauthorized, security.ErrWrongTokenType)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", fmt.Errorf("%w: account no longer exists", domain.ErrUnauthorized)
		}
		return "", "", err
	}
	if user.IsBlocked {
		return "", "", fmt.Errorf("%w: account is blocked", domain.ErrForbidden)
	}

	return s.issueTokens(user)
}

// ChangePassword verifies the current password and replaces it. Attempts are
// rate limited per user so a stolen session cannot brute-force the current
// password.
func (s *authService) ChangePassword(ctx context.Context, userID int32, currentPassword, newPassword string) error {
	logger.EnterMethod("ChangePassword", "user_id", userID)

	allowed, err := s.passLimiter.Allow(ctx, fmt.Sprintf("pwchange:%d", userID))
	if err != nil {
		return fmt.Errorf("checking rate limit: %w", err)
	}
	if !allowed {
		logger.Warn("Password change rate limited", "user_id", userID)
		return fmt.Errorf("%w: too many password change attempts, try again later", domain.ErrRateLimited)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !security.CheckPassword(user.PasswordHash, currentPassword) {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrUnauthorized)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	// A successful change clears the attempt counter.
	_ = s.passLimiter.Reset(ctx, fmt.Sprintf("pwchange:%d", userID))

	logger.ExitMethod("ChangePassword", "user_id", userID)
	return nil
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, []string{string(user.Role)})
	if err != nil {
		return "", "", fmt.Errorf("generating access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("generating refresh token: %w", err)
	}
	return access, refresh, nil
}
