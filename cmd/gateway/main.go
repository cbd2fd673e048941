package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arcticauto/booking-gateway/internal/api/router"
	"github.com/arcticauto/booking-gateway/internal/app/bootstrap"
	"github.com/arcticauto/booking-gateway/internal/booking"
	appconfig "github.com/arcticauto/booking-gateway/internal/config"
	"github.com/arcticauto/booking-gateway/internal/http/handlers"
	"github.com/arcticauto/booking-gateway/internal/observability/metrics"
	"github.com/arcticauto/booking-gateway/internal/shopapi"
	"github.com/arcticauto/booking-gateway/pkg/logging"
)

func main() {
	// Load .env in development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking gateway",
		"env", cfg.Env,
		"port", cfg.Port,
		"shop_api", cfg.ShopAPIBaseURL,
	)

	if cfg.CustomerJWTSecret == "" {
		logger.Warn("CUSTOMER_JWT_SECRET not set, submission and booking-record routes are disabled")
	}

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	shopClient := shopapi.NewClient(cfg.ShopAPIBaseURL, logger,
		shopapi.WithTimeout(cfg.ShopAPITimeout),
	)

	redisClient := bootstrap.BuildRedisClient(context.Background(), cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	sessions := bootstrap.BuildSelectionStore(redisClient, cfg, logger)

	workflow := booking.NewWorkflow(shopClient, logger,
		booking.WithMetrics(bookingMetrics),
	)

	routerCfg := &router.Config{
		Logger:             logger,
		BookingHandler: handlers.NewBookingHandler(workflow, shopClient, sessions, logger,
			handlers.WithBlockedDatesTTL(cfg.BlockedDatesCacheTTL),
		),
		BookingsHandler:    handlers.NewBookingsHandler(shopClient, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CustomerJWTSecret:  cfg.CustomerJWTSecret,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
