package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/feirahub/profile-service/app/observability/metrics"
	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/types"
)

// PgxQuerier is the subset of pgxpool.Pool the repository uses; pgxmock
// satisfies it in tests.
type PgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ ProfileRepo = (*PostgresProfileRepo)(nil)

// ProfileRepo defines the contract for profile persistence.
type ProfileRepo interface {
	// GetProfileByID retrieves a member's profile row.
	// Returns api.ErrNotFound if no row exists.
	GetProfileByID(ctx context.Context, userID uuid.UUID) (*types.Profile, error)

	// CanUpdatePersonalInfo invokes the backend eligibility check for
	// restricted-field (username/phone) updates.
	CanUpdatePersonalInfo(ctx context.Context, userID uuid.UUID) (bool, error)

	// UpdateProfile writes the full field set to the row. When
	// personalInfoStamp is non-nil the restricted-field timestamp is
	// written alongside; otherwise it is left untouched.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams, personalInfoStamp *time.Time) error

	// UpdateMediaLink replaces a single media link (avatar or cover).
	UpdateMediaLink(ctx context.Context, userID uuid.UUID, kind MediaKind, link string) error
}

// MediaKind selects which media link an UpdateMediaLink call replaces.
type MediaKind string

const (
	MediaAvatar MediaKind = "avatar_url"
	MediaCover  MediaKind = "cover_url"
)

type PostgresProfileRepo struct {
	logger *slog.Logger
	pgpool PgxQuerier
}

func NewPostgresProfileRepo(pgpool PgxQuerier, logger *slog.Logger) *PostgresProfileRepo {
	return &PostgresProfileRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const profileColumns = `
	id, username, full_name, email, phone, birth_date,
	address, city, state, postal_code, bio, website, status,
	avatar_url, cover_url, updated_personal_info_at, created_at, updated_at`

func (r *PostgresProfileRepo) GetProfileByID(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "GetProfileByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "profiles"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	start := time.Now()
	var p types.Profile
	err := r.pgpool.QueryRow(ctx,
		`SELECT`+profileColumns+` FROM profiles WHERE id = $1`,
		userID).Scan(
		&p.ID, &p.Username, &p.FullName, &p.Email, &p.Phone, &p.BirthDate,
		&p.Address, &p.City, &p.State, &p.PostalCode, &p.Bio, &p.Website, &p.Status,
		&p.AvatarURL, &p.CoverURL, &p.UpdatedPersonalInfoAt, &p.CreatedAt, &p.UpdatedAt,
	)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Profile not found")
			return nil, fmt.Errorf("profile not found: %w", api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching profile: %w", err)
	}

	span.SetStatus(codes.Ok, "Profile fetched")
	return &p, nil
}

func (r *PostgresProfileRepo) CanUpdatePersonalInfo(ctx context.Context, userID uuid.UUID) (bool, error) {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "CanUpdatePersonalInfo", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	var allowed bool
	err := r.pgpool.QueryRow(ctx,
		"SELECT can_update_personal_info($1)", userID).Scan(&allowed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Eligibility check failed")
		return false, fmt.Errorf("database error checking update eligibility: %w", err)
	}

	span.SetAttributes(attribute.Bool("update.allowed", allowed))
	span.SetStatus(codes.Ok, "Eligibility checked")
	return allowed, nil
}

func (r *PostgresProfileRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams, personalInfoStamp *time.Time) error {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "profiles"),
		attribute.String("db.user.id", userID.String()),
		attribute.Bool("update.personal_info_stamp", personalInfoStamp != nil),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	query := `
		UPDATE profiles SET
			username = NULLIF($1, ''),
			full_name = NULLIF($2, ''),
			email = NULLIF($3, ''),
			phone = NULLIF($4, ''),
			birth_date = $5,
			address = NULLIF($6, ''),
			city = NULLIF($7, ''),
			state = NULLIF($8, ''),
			postal_code = NULLIF($9, ''),
			bio = NULLIF($10, ''),
			website = NULLIF($11, ''),
			status = NULLIF($12, ''),
			avatar_url = NULLIF($13, ''),
			cover_url = NULLIF($14, ''),
			updated_personal_info_at = COALESCE($15, updated_personal_info_at),
			updated_at = $16
		WHERE id = $17`

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx, query,
		params.Username, params.FullName, params.Email, params.Phone, params.BirthDate,
		params.Address, params.City, params.State, params.PostalCode,
		params.Bio, params.Website, params.Status,
		params.AvatarURL, params.CoverURL,
		personalInfoStamp, time.Now(), userID,
	)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		l.ErrorContext(ctx, "Failed to execute profile update", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Profile not found")
		return fmt.Errorf("profile not found for update: %w", api.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Profile updated")
	return nil
}

func (r *PostgresProfileRepo) UpdateMediaLink(ctx context.Context, userID uuid.UUID, kind MediaKind, link string) error {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "UpdateMediaLink", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "profiles"),
		attribute.String("media.kind", string(kind)),
	))
	defer span.End()

	var query string
	switch kind {
	case MediaAvatar:
		query = "UPDATE profiles SET avatar_url = NULLIF($1, ''), updated_at = $2 WHERE id = $3"
	case MediaCover:
		query = "UPDATE profiles SET cover_url = NULLIF($1, ''), updated_at = $2 WHERE id = $3"
	default:
		return fmt.Errorf("unknown media kind: %s", kind)
	}

	tag, err := r.pgpool.Exec(ctx, query, link, time.Now(), userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating media link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Profile not found")
		return fmt.Errorf("profile not found for media update: %w", api.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Media link updated")
	return nil
}
