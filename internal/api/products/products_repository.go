package products

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/feirahub/profile-service/internal/types"
)

var _ ProductsRepo = (*PostgresProductsRepo)(nil)

// ProductsRepo defines the contract for product reads.
type ProductsRepo interface {
	// ListByOwner retrieves a member's products, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Product, error)
}

type PostgresProductsRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresProductsRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresProductsRepo {
	return &PostgresProductsRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresProductsRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Product, error) {
	ctx, span := otel.Tracer("ProductsRepo").Start(ctx, "ListByOwner", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "products"),
		attribute.String("db.owner.id", ownerID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "ListByOwner"), slog.String("ownerID", ownerID.String()))

	query := `
		SELECT id, owner_id, name, description, price_cents, image_url, created_at
		FROM products
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pgpool.Query(ctx, query, ownerID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query products", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching products: %w", err)
	}
	defer rows.Close()

	var products []types.Product
	for rows.Next() {
		var p types.Product
		err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL, &p.CreatedAt)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning product: %w", err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading products: %w", err)
	}

	span.SetStatus(codes.Ok, "Products fetched")
	return products, nil
}
