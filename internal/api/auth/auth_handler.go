package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"github.com/feirahub/profile-service/config"
	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ConfigureOAuth registers the Google provider with goth. Call once at startup.
func ConfigureOAuth(cfg *config.Config) {
	gothic.Store = sessions.NewCookieStore([]byte(cfg.OAuth.SessionSecret))
	goth.UseProviders(
		google.New(cfg.OAuth.GoogleClientKey, cfg.OAuth.GoogleClientSecret, cfg.OAuth.GoogleCallbackURL, "email", "profile"),
	)
}

// Login godoc
// @Summary      Login
// @Description  Authenticates a user and returns access and refresh tokens.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body types.LoginRequest true "Login credentials"
// @Success      200 {object} types.TokenResponse
// @Failure      401 {object} api.Response "Invalid credentials"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.WarnContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Register godoc
// @Summary      Register
// @Description  Creates a new user with an empty profile.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        registration body types.RegisterRequest true "Registration data"
// @Success      201 {object} api.Response
// @Failure      400 {object} api.Response "Invalid input"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email and a password of at least 8 characters are required")
		return
	}

	if _, err := h.authService.Register(ctx, req.Email, req.Password, req.Username); err != nil {
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{
		Success: true,
		Message: "User registered successfully",
	})
}

// RefreshSession godoc
// @Summary      Refresh session
// @Description  Rotates the refresh token and issues a new access token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        token body types.RefreshTokenRequest true "Refresh token"
// @Success      200 {object} types.TokenResponse
// @Failure      401 {object} api.Response "Invalid refresh token"
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Logout godoc
// @Summary      Sign out
// @Description  Revokes the presented refresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        token body types.LogoutRequest true "Refresh token to revoke"
// @Success      200 {object} api.Response
// @Failure      400 {object} api.Response "Invalid input"
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Logout"))

	var req types.LogoutRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.Logout(ctx, req.RefreshToken); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			// Token already gone; sign-out is idempotent from the client's view.
			api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Success: true, Message: "Signed out"})
			return
		}
		l.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to sign out")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Success: true, Message: "Signed out"})
}

// GetSession godoc
// @Summary      Current session
// @Description  Returns the authenticated caller's session context.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.Session
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /auth/session [get]
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserIDFromContext(ctx)
	if !ok || userID == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	session, err := h.authService.GetSession(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to load session", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load session")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, session)
}

// BeginOAuth starts the provider sign-in flow.
func (h *AuthHandler) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	r = gothic.GetContextWithProvider(r, provider)
	gothic.BeginAuthHandler(w, r)
}

// OAuthCallback completes the provider flow and issues our token pair.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "OAuthCallback"))

	provider := chi.URLParam(r, "provider")
	r = gothic.GetContextWithProvider(r, provider)

	providerUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		l.WarnContext(ctx, "OAuth completion failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnauthorized, "OAuth sign-in failed")
		return
	}

	accessToken, refreshToken, err := h.authService.LoginFromProvider(ctx, provider, providerUser)
	if err != nil {
		l.ErrorContext(ctx, "Provider login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
