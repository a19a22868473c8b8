package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/pranay0217/travelmate/internal/http/middleware"
	"github.com/pranay0217/travelmate/internal/messaging"
	"github.com/pranay0217/travelmate/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	MessagingHandler *messaging.Handler
	MetricsHandler   http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.MessagingHandler.HealthCheck)

	// Twilio posts form-encoded webhook events here.
	r.Post("/whatsapp", cfg.MessagingHandler.WhatsAppWebhook)
	r.Route("/webhooks/twilio", func(r chi.Router) {
		r.Post("/whatsapp", cfg.MessagingHandler.WhatsAppWebhook)
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
