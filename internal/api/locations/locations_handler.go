package locations

import (
	"log/slog"
	"net/http"

	"github.com/feirahub/profile-service/internal/api"
)

type HandlerImpl struct {
	locationsService LocationsService
	logger           *slog.Logger
}

func NewHandlerImpl(locationsService LocationsService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		locationsService: locationsService,
		logger:           logger,
	}
}

// ListLocations godoc
// @Summary      List locations
// @Description  Retrieves the global location reference list ordered by name.
// @Tags         Locations
// @Produce      json
// @Success      200 {array} types.Location
// @Security     BearerAuth
// @Router       /locations [get]
func (h *HandlerImpl) ListLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	locations, err := h.locationsService.ListAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list locations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve locations")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, locations)
}
