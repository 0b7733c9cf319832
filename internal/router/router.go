package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/feirahub/profile-service/internal/api/auth"
	"github.com/feirahub/profile-service/internal/api/locations"
	"github.com/feirahub/profile-service/internal/api/page"
	"github.com/feirahub/profile-service/internal/api/products"
	"github.com/feirahub/profile-service/internal/api/profile"
	"github.com/feirahub/profile-service/internal/media"
)

// Config contains the handlers needed for the router setup.
type Config struct {
	AuthHandler            *auth.AuthHandler
	ProfileHandler         *profile.HandlerImpl
	ProductsHandler        *products.HandlerImpl
	LocationsHandler       *locations.HandlerImpl
	PageHandler            *page.HandlerImpl
	MediaProxy             *media.Proxy
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied
// before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-Image-Fallback"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		// Public routes, no JWT required.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)
			r.Get("/auth/{provider}", cfg.AuthHandler.BeginOAuth)
			r.Get("/auth/{provider}/callback", cfg.AuthHandler.OAuthCallback)

			// The image proxy resolves pasted links for <img> tags, so it
			// carries no Authorization header.
			r.Get("/media/image", cfg.MediaProxy.ServeImage)
		})

		// Protected routes.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Get("/auth/session", cfg.AuthHandler.GetSession)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", cfg.ProfileHandler.GetProfile)
				r.Put("/", cfg.ProfileHandler.UpdateProfile)
				r.Patch("/avatar", cfg.ProfileHandler.UpdateAvatar)
				r.Patch("/cover", cfg.ProfileHandler.UpdateCover)
				r.Get("/page", cfg.PageHandler.GetPage)
				r.Get("/share-link", cfg.PageHandler.GetShareLink)
				r.Get("/products", cfg.ProductsHandler.ListMyProducts)
			})

			r.Get("/locations", cfg.LocationsHandler.ListLocations)
		})
	})

	return r
}
