package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"golang.org/x/crypto/bcrypt"

	"github.com/feirahub/profile-service/config"
	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract for sessions.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error)
	Register(ctx context.Context, email, password, username string) (string, error)
	RefreshSession(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	GetSession(ctx context.Context, userID string) (*types.Session, error)
	LoginFromProvider(ctx context.Context, provider string, providerUser goth.User) (string, string, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
}

func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

// Login authenticates a user and returns access and refresh tokens.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	l := s.logger.With(slog.String("method", "Login"))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		l.WarnContext(ctx, "Login failed, user lookup", slog.Any("error", err))
		return "", "", fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		l.WarnContext(ctx, "Login failed, password mismatch")
		return "", "", fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
	}

	return s.issueTokens(ctx, user)
}

// Register creates a new local user and an empty profile.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, username string) (string, error) {
	l := s.logger.With(slog.String("method", "Register"))

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.repo.Register(ctx, email, string(hashed), username)
	if err != nil {
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		return "", fmt.Errorf("error registering user: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", userID))
	return userID, nil
}

// RefreshSession rotates the refresh token and issues a new access token.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	l := s.logger.With(slog.String("method", "RefreshSession"))

	userID, err := s.repo.ValidateRefreshTokenAndGetUserID(ctx, refreshToken)
	if err != nil {
		l.WarnContext(ctx, "Refresh token validation failed", slog.Any("error", err))
		return "", "", fmt.Errorf("error refreshing session: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("error fetching user for refresh: %w", err)
	}

	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil && !errors.Is(err, api.ErrNotFound) {
		l.WarnContext(ctx, "Failed to revoke rotated refresh token", slog.Any("error", err))
	}

	return s.issueTokens(ctx, user)
}

// Logout signs the caller out by revoking the presented refresh token.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	l := s.logger.With(slog.String("method", "Logout"))

	err := s.repo.InvalidateRefreshToken(ctx, refreshToken)
	if err != nil {
		l.WarnContext(ctx, "Failed to invalidate refresh token", slog.Any("error", err))
		return fmt.Errorf("error signing out: %w", err)
	}

	l.InfoContext(ctx, "User signed out")
	return nil
}

// GetSession returns the authenticated caller's current login context.
func (s *AuthServiceImpl) GetSession(ctx context.Context, userID string) (*types.Session, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching session user: %w", err)
	}

	return &types.Session{
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(s.jwtCfg.AccessTokenTTL),
	}, nil
}

// LoginFromProvider resolves an OAuth identity to a local user and issues
// the same token pair as password login.
func (s *AuthServiceImpl) LoginFromProvider(ctx context.Context, provider string, providerUser goth.User) (string, string, error) {
	user, err := s.repo.GetOrCreateUserFromProvider(ctx, provider, providerUser)
	if err != nil {
		return "", "", fmt.Errorf("error resolving provider user: %w", err)
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *types.UserAuth) (string, string, error) {
	now := time.Now()
	claims := api.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTokenTTL)),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken := uuid.NewString()
	if err := s.repo.StoreRefreshToken(ctx, user.ID, refreshToken, now.Add(s.jwtCfg.RefreshTokenTTL)); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}
