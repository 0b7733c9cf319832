package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/api/auth"
	"github.com/feirahub/profile-service/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	UpdateAvatar(w http.ResponseWriter, r *http.Request)
	UpdateCover(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	profileService ProfileService
	logger         *slog.Logger
}

// NewHandlerImpl creates a new profile HandlerImpl instance.
func NewHandlerImpl(profileService ProfileService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		profileService: profileService,
		logger:         logger,
	}
}

// mediaLinkRequest carries a pasted image link for avatar/cover replacement.
type mediaLinkRequest struct {
	URL string `json:"url" example:"https://drive.google.com/file/d/abc123/view"`
}

// GetProfile godoc
// @Summary      Get profile
// @Description  Retrieves the authenticated member's profile with media links in directly-viewable form.
// @Tags         Profile
// @Produce      json
// @Success      200 {object} types.Profile
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Profile not found"
// @Security     BearerAuth
// @Router       /profile [get]
func (h *HandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetProfile"))

	userID, ok := callerID(r)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.profileService.GetProfile(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get profile", slog.Any("error", err))
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Profile not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve profile")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Writes the full edited field set. Username/phone changes are limited to once every 30 days.
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        profile body types.UpdateProfileParams true "Edited field values"
// @Success      200 {object} api.Response
// @Failure      400 {object} api.Response "Invalid input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      409 {object} api.Response "Restricted-field cooldown"
// @Security     BearerAuth
// @Router       /profile [put]
func (h *HandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateProfile"))

	userID, ok := callerID(r)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.UpdateProfileParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.profileService.UpdateProfile(ctx, userID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		switch {
		case errors.Is(err, api.ErrUpdateWindow):
			api.ErrorResponse(w, r, http.StatusConflict, api.ErrUpdateWindow.Error())
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Profile not found")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Profile updated successfully",
	})
}

// UpdateAvatar godoc
// @Summary      Replace avatar
// @Description  Replaces the avatar from a pasted image link.
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        link body mediaLinkRequest true "Image link"
// @Success      200 {object} api.Response
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /profile/avatar [patch]
func (h *HandlerImpl) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateMedia(w, r, "avatar", h.profileService.UpdateAvatar)
}

// UpdateCover godoc
// @Summary      Replace cover image
// @Description  Replaces the cover from a pasted image link.
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        link body mediaLinkRequest true "Image link"
// @Success      200 {object} api.Response
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /profile/cover [patch]
func (h *HandlerImpl) UpdateCover(w http.ResponseWriter, r *http.Request) {
	h.updateMedia(w, r, "cover", h.profileService.UpdateCover)
}

func (h *HandlerImpl) updateMedia(w http.ResponseWriter, r *http.Request, kind string, update func(ctx context.Context, userID uuid.UUID, link string) error) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "updateMedia"), slog.String("kind", kind))

	userID, ok := callerID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req mediaLinkRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := update(ctx, userID, req.URL); err != nil {
		l.ErrorContext(ctx, "Failed to update media link", slog.Any("error", err))
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Profile not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update image")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Image updated successfully",
	})
}

// callerID resolves the authenticated user's UUID from the request context.
func callerID(r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok || userIDStr == "" {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
