package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/feirahub/profile-service/config"
	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/types"
)

// MockAuthRepo is a mock implementation of AuthRepo
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) Register(ctx context.Context, email, hashedPassword, username string) (string, error) {
	args := m.Called(ctx, email, hashedPassword, username)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) GetOrCreateUserFromProvider(ctx context.Context, provider string, providerUser goth.User) (*types.UserAuth, error) {
	args := m.Called(ctx, provider, providerUser)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepo) ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) InvalidateRefreshToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:       "test-secret",
		Issuer:          "profile-service-test",
		Audience:        "profile-service-clients",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func setupAuthServiceTest() (*AuthServiceImpl, *MockAuthRepo) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockAuthRepo)
	service := NewAuthService(mockRepo, testJWTConfig(), logger)
	return service, mockRepo
}

func hashedUser(id, email, password string) *types.UserAuth {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &types.UserAuth{ID: id, Email: email, Password: string(hashed), Provider: "local"}
}

func TestAuthServiceImpl_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues a signed token pair", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		user := hashedUser("user-1", "ana@example.com", "s3cret")
		mockRepo.On("GetUserByEmail", ctx, "ana@example.com").Return(user, nil).Once()
		mockRepo.On("StoreRefreshToken", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		accessToken, refreshToken, err := service.Login(ctx, "ana@example.com", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, refreshToken)

		// The access token must verify against the configured secret.
		parsed, err := jwt.ParseWithClaims(accessToken, &api.Claims{}, func(tok *jwt.Token) (interface{}, error) {
			return []byte(testJWTConfig().SecretKey), nil
		})
		require.NoError(t, err)
		claims := parsed.Claims.(*api.Claims)
		assert.Equal(t, "user-1", claims.UserID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		user := hashedUser("user-1", "ana@example.com", "s3cret")
		mockRepo.On("GetUserByEmail", ctx, "ana@example.com").Return(user, nil).Once()

		_, _, err := service.Login(ctx, "ana@example.com", "wrong")
		require.Error(t, err)
		assert.True(t, errors.Is(err, api.ErrUnauthenticated))
		mockRepo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown user maps to the same error", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, api.ErrNotFound).Once()

		_, _, err := service.Login(ctx, "ghost@example.com", "whatever")
		require.Error(t, err)
		assert.True(t, errors.Is(err, api.ErrUnauthenticated))
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthServiceImpl_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes the password before storing", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("Register", ctx, "novo@example.com",
			mock.MatchedBy(func(hashed string) bool {
				return bcrypt.CompareHashAndPassword([]byte(hashed), []byte("s3cret")) == nil
			}), "novo").Return("user-2", nil).Once()

		userID, err := service.Register(ctx, "novo@example.com", "s3cret", "novo")
		require.NoError(t, err)
		assert.Equal(t, "user-2", userID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("Register", ctx, "ana@example.com", mock.AnythingOfType("string"), "ana").
			Return("", api.ErrUsernameTaken).Once()

		_, err := service.Register(ctx, "ana@example.com", "s3cret", "ana")
		require.Error(t, err)
		assert.True(t, errors.Is(err, api.ErrUsernameTaken))
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthServiceImpl_RefreshSession(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the refresh token", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		user := hashedUser("user-1", "ana@example.com", "s3cret")
		mockRepo.On("ValidateRefreshTokenAndGetUserID", ctx, "old-token").Return("user-1", nil).Once()
		mockRepo.On("GetUserByID", ctx, "user-1").Return(user, nil).Once()
		mockRepo.On("InvalidateRefreshToken", ctx, "old-token").Return(nil).Once()
		mockRepo.On("StoreRefreshToken", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		accessToken, refreshToken, err := service.RefreshSession(ctx, "old-token")
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEqual(t, "old-token", refreshToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid token", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("ValidateRefreshTokenAndGetUserID", ctx, "bogus").
			Return("", api.ErrUnauthenticated).Once()

		_, _, err := service.RefreshSession(ctx, "bogus")
		require.Error(t, err)
		assert.True(t, errors.Is(err, api.ErrUnauthenticated))
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthServiceImpl_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the refresh token", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("InvalidateRefreshToken", ctx, "token-1").Return(nil).Once()

		require.NoError(t, service.Logout(ctx, "token-1"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown token surfaces the error", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("InvalidateRefreshToken", ctx, "gone").Return(api.ErrNotFound).Once()

		err := service.Logout(ctx, "gone")
		require.Error(t, err)
		assert.True(t, errors.Is(err, api.ErrNotFound))
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthServiceImpl_LoginFromProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the provider identity and issues tokens", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		providerUser := goth.User{Provider: "google", Email: "ana@example.com", UserID: "g-123"}
		user := &types.UserAuth{ID: "user-1", Email: "ana@example.com", Provider: "google"}

		mockRepo.On("GetOrCreateUserFromProvider", ctx, "google", providerUser).Return(user, nil).Once()
		mockRepo.On("StoreRefreshToken", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		accessToken, refreshToken, err := service.LoginFromProvider(ctx, "google", providerUser)
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		mockRepo.AssertExpectations(t)
	})
}
