package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feirahub/profile-service/app/observability/metrics"
	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/types"
)

func setupProfileRepoTest(t *testing.T) (*PostgresProfileRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	metrics.InitAppMetrics()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresProfileRepo(mockPool, logger), mockPool
}

func profileRow(userID uuid.UUID, username *string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "username", "full_name", "email", "phone", "birth_date",
		"address", "city", "state", "postal_code", "bio", "website", "status",
		"avatar_url", "cover_url", "updated_personal_info_at", "created_at", "updated_at",
	}).AddRow(
		userID, username, strPtr("Ana Souza"), strPtr("ana@example.com"), nil, nil,
		nil, strPtr("São Paulo"), strPtr("SP"), nil, nil, nil, nil,
		nil, nil, nil, now, now,
	)
}

func TestPostgresProfileRepo_GetProfileByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupProfileRepoTest(t)
		mockPool.ExpectQuery("SELECT(.|\\s)+FROM profiles WHERE id = \\$1").
			WithArgs(userID).
			WillReturnRows(profileRow(userID, strPtr("ana")))

		p, err := repo.GetProfileByID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, p.ID)
		require.NotNil(t, p.Username)
		assert.Equal(t, "ana", *p.Username)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		repo, mockPool := setupProfileRepoTest(t)
		mockPool.ExpectQuery("SELECT(.|\\s)+FROM profiles WHERE id = \\$1").
			WithArgs(userID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetProfileByID(ctx, userID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, api.ErrNotFound))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresProfileRepo_CanUpdatePersonalInfo(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("allowed", func(t *testing.T) {
		repo, mockPool := setupProfileRepoTest(t)
		mockPool.ExpectQuery("SELECT can_update_personal_info\\(\\$1\\)").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"can_update_personal_info"}).AddRow(true))

		allowed, err := repo.CanUpdatePersonalInfo(ctx, userID)
		require.NoError(t, err)
		assert.True(t, allowed)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("denied while inside the cooldown window", func(t *testing.T) {
		repo, mockPool := setupProfileRepoTest(t)
		mockPool.ExpectQuery("SELECT can_update_personal_info\\(\\$1\\)").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"can_update_personal_info"}).AddRow(false))

		allowed, err := repo.CanUpdatePersonalInfo(ctx, userID)
		require.NoError(t, err)
		assert.False(t, allowed)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mockPool := setupProfileRepoTest(t)
		mockPool.ExpectQuery("SELECT can_update_personal_info\\(\\$1\\)").
			WithArgs(userID).
			WillReturnError(errors.New("function does not exist"))

		_, err := repo.CanUpdatePersonalInfo(ctx, userID)
		require.Error(t, err)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresProfileRepo_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	params := types.UpdateProfileParams{
		Username: "ana",
		FullName: "Ana Souza",
		City:     "São Paulo",
	}

	t.Run("writes all fields without a stamp", func(t *testing.T) {
		repo, mockPool := setupProfileRepoTest(t)
		mockPool.ExpectExec("UPDATE profiles SET").
			WithArgs(
				params.Username, params.FullName, params.Email, params.Phone, params.BirthDate,
				params.Address, params.City, params.State, params.PostalCode,
				params.Bio, params.Website, params.Status,
				params.AvatarURL, params.CoverURL,
				(*time.Time)(nil), pgxmock.AnyArg(), userID,
			).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateProfile(ctx, userID, params, nil)
		require.NoError(t, err)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("writes the personal-info stamp when supplied", func(t *testing.T) {
		repo, mockPool := setupProfileRepoTest(t)
		stamp := time.Now()
		mockPool.ExpectExec("UPDATE profiles SET").
			WithArgs(
				params.Username, params.FullName, params.Email, params.Phone, params.BirthDate,
				params.Address, params.City, params.State, params.PostalCode,
				params.Bio, params.Website, params.Status,
				params.AvatarURL, params.CoverURL,
				&stamp, pgxmock.AnyArg(), userID,
			).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateProfile(ctx, userID, params, &stamp)
		require.NoError(t, err)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no row updated maps to not found", func(t *testing.T) {
		repo, mockPool := setupProfileRepoTest(t)
		mockPool.ExpectExec("UPDATE profiles SET").
			WithArgs(
				params.Username, params.FullName, params.Email, params.Phone, params.BirthDate,
				params.Address, params.City, params.State, params.PostalCode,
				params.Bio, params.Website, params.Status,
				params.AvatarURL, params.CoverURL,
				(*time.Time)(nil), pgxmock.AnyArg(), userID,
			).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateProfile(ctx, userID, params, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, api.ErrNotFound))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresProfileRepo_UpdateMediaLink(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("avatar", func(t *testing.T) {
		repo, mockPool := setupProfileRepoTest(t)
		mockPool.ExpectExec("UPDATE profiles SET avatar_url").
			WithArgs("https://example.com/a.png", pgxmock.AnyArg(), userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateMediaLink(ctx, userID, MediaAvatar, "https://example.com/a.png")
		require.NoError(t, err)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("cover", func(t *testing.T) {
		repo, mockPool := setupProfileRepoTest(t)
		mockPool.ExpectExec("UPDATE profiles SET cover_url").
			WithArgs("https://example.com/c.png", pgxmock.AnyArg(), userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateMediaLink(ctx, userID, MediaCover, "https://example.com/c.png")
		require.NoError(t, err)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		repo, _ := setupProfileRepoTest(t)
		err := repo.UpdateMediaLink(ctx, userID, MediaKind("banner"), "x")
		require.Error(t, err)
	})
}
