package locations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/feirahub/profile-service/internal/types"
)

var _ LocationsService = (*LocationsServiceImpl)(nil)

// LocationsService defines the business logic contract for the location list.
type LocationsService interface {
	ListAll(ctx context.Context) ([]types.Location, error)
}

type LocationsServiceImpl struct {
	logger *slog.Logger
	repo   LocationsRepo
}

func NewLocationsService(repo LocationsRepo, logger *slog.Logger) *LocationsServiceImpl {
	return &LocationsServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// ListAll retrieves the global location list ordered by name.
func (s *LocationsServiceImpl) ListAll(ctx context.Context) ([]types.Location, error) {
	locations, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch locations", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching locations: %w", err)
	}
	return locations, nil
}
