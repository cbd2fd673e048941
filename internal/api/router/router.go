// Package router wires the gateway's HTTP surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arcticauto/booking-gateway/internal/http/handlers"
	httpmiddleware "github.com/arcticauto/booking-gateway/internal/http/middleware"
	"github.com/arcticauto/booking-gateway/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	BookingHandler  *handlers.BookingHandler
	BookingsHandler *handlers.BookingsHandler
	MetricsHandler  http.Handler

	CORSAllowedOrigins []string

	// CustomerJWTSecret verifies the shop's customer tokens. Submission and
	// booking-record routes are disabled when empty.
	CustomerJWTSecret string

	// RateLimitPerSecond caps sustained requests per client IP. Zero
	// disables rate limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints: health, metrics, and the anonymous part of the
	// selection workflow (browsing dates, slots, and technicians needs no
	// sign-in).
	r.Group(func(public chi.Router) {
		public.Get("/health", handlers.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.BookingHandler != nil {
			public.Mount("/booking", cfg.BookingHandler.Routes())
		}
	})

	// Identified endpoints: submitting a booking and reading or mutating the
	// customer's booking records require a customer token.
	if cfg.CustomerJWTSecret != "" {
		r.Group(func(identified chi.Router) {
			identified.Use(httpmiddleware.CustomerJWT(cfg.CustomerJWTSecret))
			if cfg.BookingHandler != nil {
				identified.Post("/booking/submit", cfg.BookingHandler.Submit)
			}
			if cfg.BookingsHandler != nil {
				identified.Mount("/bookings", cfg.BookingsHandler.Routes())
			}
		})
	}

	return r
}
