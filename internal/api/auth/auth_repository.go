package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbates/goth"

	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo defines the contract for credential and session persistence.
type AuthRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error)
	GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error)
	Register(ctx context.Context, email, hashedPassword, username string) (string, error)
	// GetOrCreateUserFromProvider resolves an OAuth identity to a local
	// user, creating the user and an empty profile row on first sign-in.
	GetOrCreateUserFromProvider(ctx context.Context, provider string, providerUser goth.User) (*types.UserAuth, error)

	StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (string, error)
	InvalidateRefreshToken(ctx context.Context, refreshToken string) error
	InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAuthRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	var user types.UserAuth
	var passwordHash *string
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, email, password_hash, provider FROM users WHERE email = $1 AND is_active = TRUE",
		email).Scan(&user.ID, &user.Email, &passwordHash, &user.Provider)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	if passwordHash != nil {
		user.Password = *passwordHash
	}
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	var user types.UserAuth
	var passwordHash *string
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, email, password_hash, provider FROM users WHERE id = $1 AND is_active = TRUE",
		userID).Scan(&user.ID, &user.Email, &passwordHash, &user.Provider)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	if passwordHash != nil {
		user.Password = *passwordHash
	}
	return &user, nil
}

// Register creates the user and its empty profile row in one transaction.
func (r *PostgresAuthRepo) Register(ctx context.Context, email, hashedPassword, username string) (string, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx,
		"INSERT INTO users (email, password_hash, provider) VALUES ($1, $2, 'local') RETURNING id",
		email, hashedPassword).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO profiles (id, username, email) VALUES ($1, NULLIF($2, ''), $3)",
		userID, username, email)
	if err != nil {
		return "", fmt.Errorf("failed to create profile: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit registration: %w", err)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) GetOrCreateUserFromProvider(ctx context.Context, provider string, providerUser goth.User) (*types.UserAuth, error) {
	l := r.logger.With(slog.String("method", "GetOrCreateUserFromProvider"), slog.String("provider", provider))

	existing, err := r.GetUserByEmail(ctx, providerUser.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, api.ErrNotFound) {
		return nil, err
	}

	l.InfoContext(ctx, "First OAuth sign-in, creating user", slog.String("email", providerUser.Email))

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx,
		"INSERT INTO users (email, provider) VALUES ($1, $2) RETURNING id",
		providerUser.Email, provider).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user from provider: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO profiles (id, full_name, email, avatar_url) VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''))",
		userID, providerUser.Name, providerUser.Email, providerUser.AvatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile from provider: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit provider registration: %w", err)
	}

	return &types.UserAuth{ID: userID, Email: providerUser.Email, Provider: provider}, nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx,
		"INSERT INTO refresh_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)",
		token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (string, error) {
	var userID string
	var expiresAt time.Time
	var revokedAt *time.Time
	err := r.pgpool.QueryRow(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token = $1",
		refreshToken).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("refresh token not found: %w", api.ErrUnauthenticated)
		}
		return "", fmt.Errorf("database error validating refresh token: %w", err)
	}
	if revokedAt != nil || time.Now().After(expiresAt) {
		return "", fmt.Errorf("refresh token expired or revoked: %w", api.ErrUnauthenticated)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) InvalidateRefreshToken(ctx context.Context, refreshToken string) error {
	tag, err := r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = $1 WHERE token = $2 AND revoked_at IS NULL",
		time.Now(), refreshToken)
	if err != nil {
		return fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("refresh token not found: %w", api.ErrNotFound)
	}
	return nil
}

func (r *PostgresAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL",
		time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to invalidate user refresh tokens: %w", err)
	}
	return nil
}
