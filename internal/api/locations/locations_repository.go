package locations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/feirahub/profile-service/internal/types"
)

var _ LocationsRepo = (*PostgresLocationsRepo)(nil)

// LocationsRepo defines the contract for the location reference list.
type LocationsRepo interface {
	// ListAll retrieves the global location list ordered by name.
	ListAll(ctx context.Context) ([]types.Location, error)
}

type PostgresLocationsRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresLocationsRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresLocationsRepo {
	return &PostgresLocationsRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresLocationsRepo) ListAll(ctx context.Context) ([]types.Location, error) {
	ctx, span := otel.Tracer("LocationsRepo").Start(ctx, "ListAll", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "locations"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		"SELECT id, name, region FROM locations ORDER BY name")
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query locations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching locations: %w", err)
	}
	defer rows.Close()

	var locations []types.Location
	for rows.Next() {
		var loc types.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Region); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading locations: %w", err)
	}

	span.SetStatus(codes.Ok, "Locations fetched")
	return locations, nil
}
