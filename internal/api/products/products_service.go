package products

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/feirahub/profile-service/internal/types"
)

var _ ProductsService = (*ProductsServiceImpl)(nil)

// ProductsService defines the business logic contract for product reads.
type ProductsService interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Product, error)
}

type ProductsServiceImpl struct {
	logger *slog.Logger
	repo   ProductsRepo
}

func NewProductsService(repo ProductsRepo, logger *slog.Logger) *ProductsServiceImpl {
	return &ProductsServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// ListByOwner retrieves a member's products.
func (s *ProductsServiceImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Product, error) {
	l := s.logger.With(slog.String("method", "ListByOwner"), slog.String("ownerID", ownerID.String()))

	products, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch products", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching products: %w", err)
	}

	l.DebugContext(ctx, "Products fetched", slog.Int("count", len(products)))
	return products, nil
}
