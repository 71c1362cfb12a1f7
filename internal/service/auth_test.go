package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/security"
)

func newAuthFixture() (*MockUserRepo, *MockLimiter, AuthService) {
	userRepo := new(MockUserRepo)
	limiter := new(MockLimiter)
	tokens := security.NewTokenManager("test-secret-that-is-32-chars-long!!", time.Hour, 7*24*time.Hour)
	svc := NewAuthService(userRepo, tokens, limiter)
	return userRepo, limiter, svc
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, domain.ErrNotFound)
		userRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 42
		}).Return(nil)

		user, access, refresh, err := svc.Signup(ctx, "New User", "New@Example.com", "555-0100", "hunter2secure")

		assert.NoError(t, err)
		assert.Equal(t, int32(42), user.ID)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Equal(t, domain.RoleGuest, user.Role)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "hunter2secure", user.PasswordHash)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "taken@example.com").Return(&domain.User{ID: 1}, nil)

		_, _, _, err := svc.Signup(ctx, "Dup", "taken@example.com", "", "hunter2secure")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, domain.ErrNotFound)

		_, _, _, err := svc.Signup(ctx, "New", "new@example.com", "", "short")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, _ := security.HashPassword("hunter2secure")

	t.Run("Success", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "dana@example.com").Return(&domain.User{
			ID: 3, Email: "dana@example.com", PasswordHash: hash, Role: domain.RoleGuest,
		}, nil)

		user, access, _, err := svc.Login(ctx, "dana@example.com", "hunter2secure")
		assert.NoError(t, err)
		assert.Equal(t, int32(3), user.ID)
		assert.NotEmpty(t, access)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "dana@example.com").Return(&domain.User{
			ID: 3, PasswordHash: hash,
		}, nil)

		_, _, _, err := svc.Login(ctx, "dana@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)

		_, _, _, err := svc.Login(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("BlockedAccount", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "blocked@example.com").Return(&domain.User{
			ID: 4, PasswordHash: hash, IsBlocked: true,
		}, nil)

		_, _, _, err := svc.Login(ctx, "blocked@example.com", "hunter2secure")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	hash, _ := security.HashPassword("oldpassword")

	t.Run("Success", func(t *testing.T) {
		userRepo, limiter, svc := newAuthFixture()
		limiter.On("Allow", ctx, "pwchange:3").Return(true, nil)
		userRepo.On("GetByID", ctx, int32(3)).Return(&domain.User{ID: 3, PasswordHash: hash}, nil)
		userRepo.On("UpdatePassword", ctx, int32(3), mock.Anything).Return(nil)
		limiter.On("Reset", ctx, "pwchange:3").Return(nil)

		err := svc.ChangePassword(ctx, 3, "oldpassword", "newpassword9")
		assert.NoError(t, err)
		limiter.AssertCalled(t, "Reset", ctx, "pwchange:3")
	})

	t.Run("RateLimited", func(t *testing.T) {
		userRepo, limiter, svc := newAuthFixture()
		limiter.On("Allow", ctx, "pwchange:3").Return(false, nil)

		err := svc.ChangePassword(ctx, 3, "oldpassword", "newpassword9")
		assert.ErrorIs(t, err, domain.ErrRateLimited)
		userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("WrongCurrentPassword", func(t *testing.T) {
		userRepo, limiter, svc := newAuthFixture()
		limiter.On("Allow", ctx, "pwchange:3").Return(true, nil)
		userRepo.On("GetByID", ctx, int32(3)).Return(&domain.User{ID: 3, PasswordHash: hash}, nil)

		err := svc.ChangePassword(ctx, 3, "not-it", "newpassword9")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("AccessTokenRejected", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		tokens := security.NewTokenManager("test-secret-that-is-32-chars-long!!", time.Hour, 7*24*time.Hour)
		access, err := tokens.GenerateAccessToken(3, "dana@example.com", []string{"GUEST"})
		assert.NoError(t, err)
		_ = userRepo

		_, _, err = svc.Refresh(ctx, access)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Success", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		tokens := security.NewTokenManager("test-secret-that-is-32-chars-long!!", time.Hour, 7*24*time.Hour)
		refresh, err := tokens.GenerateRefreshToken(3, "dana@example.com")
		assert.NoError(t, err)

		userRepo.On("GetByID", ctx, int32(3)).Return(&domain.User{ID: 3, Email: "dana@example.com", Role: domain.RoleGuest}, nil)

		newAccess, newRefresh, err := svc.Refresh(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
	})
}
