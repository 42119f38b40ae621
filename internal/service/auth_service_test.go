package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"urbill/internal/config"
	"urbill/internal/domain"
	"urbill/internal/service"
	"urbill/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
		Issuer:             "urbill-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func activeAdmin(email, password string) *domain.AdminUser {
	return &domain.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashPassword(password),
		FullName:     "Test Admin",
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(mocks.MockAdminUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := activeAdmin("admin@urdigix.com", "password123")
	userRepo.On("GetByEmail", mock.Anything, "admin@urdigix.com").Return(user, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "admin@urdigix.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	userRepo := new(mocks.MockAdminUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := activeAdmin("admin@urdigix.com", "password123")
	userRepo.On("GetByEmail", mock.Anything, "admin@urdigix.com").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "admin@urdigix.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmailMapsToInvalidCredentials(t *testing.T) {
	userRepo := new(mocks.MockAdminUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "nobody@urdigix.com").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@urdigix.com",
		Password: "password123",
	})

	// Unknown accounts are indistinguishable from bad passwords.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	userRepo := new(mocks.MockAdminUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := activeAdmin("admin@urdigix.com", "password123")
	user.IsActive = false
	userRepo.On("GetByEmail", mock.Anything, "admin@urdigix.com").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "admin@urdigix.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthService_ValidateToken_RoundTrip(t *testing.T) {
	userRepo := new(mocks.MockAdminUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := activeAdmin("admin@urdigix.com", "password123")
	userRepo.On("GetByEmail", mock.Anything, "admin@urdigix.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "admin@urdigix.com",
		Password: "password123",
	})
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestAuthService_ValidateToken_RejectsRefreshToken(t *testing.T) {
	userRepo := new(mocks.MockAdminUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := activeAdmin("admin@urdigix.com", "password123")
	userRepo.On("GetByEmail", mock.Anything, "admin@urdigix.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "admin@urdigix.com",
		Password: "password123",
	})
	assert.NoError(t, err)

	// A refresh token must not pass as an access token.
	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_RefreshToken_IssuesNewPair(t *testing.T) {
	userRepo := new(mocks.MockAdminUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := activeAdmin("admin@urdigix.com", "password123")
	userRepo.On("GetByEmail", mock.Anything, "admin@urdigix.com").Return(user, nil)
	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "admin@urdigix.com",
		Password: "password123",
	})
	assert.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockAdminUserRepo), testJWTConfig())

	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
