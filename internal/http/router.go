package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/redmonkez12/qrprofile/internal/config"
	"github.com/redmonkez12/qrprofile/internal/httputil"
	"github.com/redmonkez12/qrprofile/internal/logging"
	"github.com/redmonkez12/qrprofile/internal/profile"
	"github.com/redmonkez12/qrprofile/internal/share"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, profileHandler *profile.Handler, shareHandler *share.Handler, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.TrustedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"Content-Length", "Content-Disposition"},
			MaxAge:         300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	r.Get("/health", handleHealth(cfg.App))

	r.Route("/profiles", func(r chi.Router) {
		profileHandler.Routes(r)
		shareHandler.ProfileRoutes(r)
	})
	r.Post("/qrcode", shareHandler.Generate)

	return r
}

// handleHealth reports that the API is up along with the app version
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(app config.AppConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, map[string]string{
			"status":  "api is running",
			"name":    app.Name,
			"version": app.Version,
		}, http.StatusOK)
	}
}
