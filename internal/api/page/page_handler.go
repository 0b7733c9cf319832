package page

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/api/auth"
)

type HandlerImpl struct {
	pageService PageService
	logger      *slog.Logger
}

func NewHandlerImpl(pageService PageService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		pageService: pageService,
		logger:      logger,
	}
}

// GetPage godoc
// @Summary      Profile page
// @Description  Assembles the full profile page. view=visitor previews the page as an outside visitor would see it.
// @Tags         Page
// @Produce      json
// @Param        view query string false "View mode" Enums(normal, visitor)
// @Success      200 {object} ProfilePage
// @Failure      400 {object} api.Response "Unknown view mode"
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /profile/page [get]
func (h *HandlerImpl) GetPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPage"))

	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	view, err := ParseViewMode(r.URL.Query().Get("view"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pg, err := h.pageService.GetPage(ctx, userID, view)
	if err != nil {
		l.ErrorContext(ctx, "Failed to assemble page", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to assemble profile page")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, pg)
}

// GetShareLink godoc
// @Summary      Share link
// @Description  Returns the shareable profile URL for the clipboard.
// @Tags         Page
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /profile/share-link [get]
func (h *HandlerImpl) GetShareLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	link, err := h.pageService.BuildShareLink(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to build share link", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build share link")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"share_link": link})
}
