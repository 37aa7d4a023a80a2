package main

import (
	"os"
	"strconv"
	"time"

	"shoppinglist-api/internal/middleware"
	"shoppinglist-api/internal/tls"
)

// serverConfig gathers everything main reads from the environment
type serverConfig struct {
	Port            string
	UseMemory       bool
	CascadeDelete   bool
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	SwaggerEnabled  bool
	MetricsEnabled  bool

	CORS      *middleware.CORSConfig
	Security  *middleware.SecurityConfig
	RateLimit *middleware.RateLimitConfig
	TLS       *tls.Config
}

func loadConfig() *serverConfig {
	return &serverConfig{
		Port:            getEnv("PORT", "8000"),
		UseMemory:       getEnvBool("USE_MEMORY_STORAGE", false),
		CascadeDelete:   getEnvBool("CASCADE_DELETE_ITEMS", false),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		SwaggerEnabled:  getEnvBool("SWAGGER_ENABLED", true),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),

		CORS:      middleware.NewCORSConfigFromEnv(),
		Security:  middleware.NewSecurityConfigFromEnv(),
		RateLimit: middleware.NewRateLimitConfigFromEnv(),
		TLS:       tls.NewConfigFromEnv(),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
