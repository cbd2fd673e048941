package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds gateway configuration.
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Upstream shop service (single source of truth for all booking data).
	ShopAPIBaseURL string
	ShopAPITimeout time.Duration

	// Customer identity.
	CustomerJWTSecret string

	// Session-local selection state.
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SelectionTTL  time.Duration

	// Blocked-date overlay cache window for the reschedule calendar.
	BlockedDatesCacheTTL time.Duration

	// Per-IP rate limiting. Zero disables it.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins:   splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
		ShopAPIBaseURL:       getEnv("SHOP_API_BASE_URL", "http://localhost:5000/api"),
		ShopAPITimeout:       getEnvAsDuration("SHOP_API_TIMEOUT", 15*time.Second),
		CustomerJWTSecret:    getEnv("CUSTOMER_JWT_SECRET", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),
		SelectionTTL:         getEnvAsDuration("SELECTION_TTL", 30*time.Minute),
		BlockedDatesCacheTTL: getEnvAsDuration("BLOCKED_DATES_CACHE_TTL", time.Minute),
		RateLimitPerSecond:   getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:       getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
