// Package bootstrap builds the gateway's runtime dependencies from config.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/arcticauto/booking-gateway/internal/config"
	"github.com/arcticauto/booking-gateway/internal/session"
	"github.com/arcticauto/booking-gateway/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildSelectionStore returns the session store for selection state: Redis
// when available, otherwise an in-process store. Single-instance deployments
// work fine on the in-process fallback; anything load-balanced needs Redis.
func BuildSelectionStore(redisClient *redis.Client, cfg *appconfig.Config, logger *logging.Logger) session.SelectionStore {
	ttl := cfg.SelectionTTL
	if redisClient == nil {
		if logger != nil {
			logger.Warn("using in-memory selection store, sessions will not survive restarts")
		}
		return session.NewMemoryStore(ttl)
	}
	return session.NewStore(redisClient, ttl)
}
