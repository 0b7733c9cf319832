package products

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/api/auth"
)

type HandlerImpl struct {
	productsService ProductsService
	logger          *slog.Logger
}

func NewHandlerImpl(productsService ProductsService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		productsService: productsService,
		logger:          logger,
	}
}

// ListMyProducts godoc
// @Summary      List own products
// @Description  Retrieves the authenticated member's products, newest first.
// @Tags         Products
// @Produce      json
// @Success      200 {array} types.Product
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /products [get]
func (h *HandlerImpl) ListMyProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListMyProducts"))

	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	ownerID, err := uuid.Parse(userIDStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	products, err := h.productsService.ListByOwner(ctx, ownerID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list products", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, products)
}
