package middleware

import (
	"fmt"
	"net/http"
	"time"

	"shoppinglist-api/internal/logging"
	"shoppinglist-api/internal/metrics"
	"shoppinglist-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool
	RequestsPerMin int64
	// Reads get ReadMultiplier times the base limit, writes get the base
	// limit divided by WriteDivisor
	ReadMultiplier int64
	WriteDivisor   int64
	KeyPrefix      string
}

// NewRateLimitConfigFromEnv creates rate limit config from environment variables
func NewRateLimitConfigFromEnv() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
		RequestsPerMin: getEnvInt64("RATE_LIMIT_REQUESTS_PER_MIN", 120),
		ReadMultiplier: getEnvInt64("RATE_LIMIT_READ_MULTIPLIER", 2),
		WriteDivisor:   getEnvInt64("RATE_LIMIT_WRITE_DIVISOR", 2),
		KeyPrefix:      getEnv("RATE_LIMIT_KEY_PREFIX", "shoppinglist:ratelimit"),
	}
}

// StoreFactory creates a limiter store whose keys live under prefix
type StoreFactory func(prefix string) (limiter.Store, error)

// MemoryStores keeps counters in process
func MemoryStores() StoreFactory {
	return func(prefix string) (limiter.Store, error) {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		}), nil
	}
}

// RedisStores shares counters between instances through Redis
func RedisStores(client *redis.Client) StoreFactory {
	return func(prefix string) (limiter.Store, error) {
		return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
	}
}

// RateLimiters builds the global, read and write limiters from one config
type RateLimiters struct {
	config  *RateLimitConfig
	stores  StoreFactory
	metrics *metrics.Metrics
}

// NewRateLimiters creates the limiter set. A nil stores uses memory stores.
func NewRateLimiters(config *RateLimitConfig, stores StoreFactory, m *metrics.Metrics) *RateLimiters {
	if stores == nil {
		stores = MemoryStores()
	}
	return &RateLimiters{config: config, stores: stores, metrics: m}
}

// Global limits every request by client IP
func (r *RateLimiters) Global() (gin.HandlerFunc, error) {
	return r.build("global", r.config.RequestsPerMin)
}

// Read limits GET requests; reads get a higher limit
func (r *RateLimiters) Read() (gin.HandlerFunc, error) {
	return r.build("read", r.config.RequestsPerMin*max(r.config.ReadMultiplier, 1))
}

// Write limits POST, PUT and DELETE requests; writes get a lower limit
func (r *RateLimiters) Write() (gin.HandlerFunc, error) {
	return r.build("write", max(r.config.RequestsPerMin/max(r.config.WriteDivisor, 1), 1))
}

func (r *RateLimiters) build(kind string, limit int64) (gin.HandlerFunc, error) {
	if !r.config.Enabled {
		return func(c *gin.Context) { c.Next() }, nil
	}

	store, err := r.stores(fmt.Sprintf("%s:%s", r.config.KeyPrefix, kind))
	if err != nil {
		return nil, fmt.Errorf("create %s rate limit store: %w", kind, err)
	}

	rate := limiter.Rate{Period: time.Minute, Limit: limit}
	instance := limiter.New(store, rate)

	handler := mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		logging.Logger.WithFields(logrus.Fields{
			"request_id":    GetRequestID(c),
			"client_ip":     c.ClientIP(),
			"path":          c.Request.URL.Path,
			"method":        c.Request.Method,
			"limit_type":    kind,
			"limit_per_min": rate.Limit,
		}).Warn("Rate limit exceeded")
		r.metrics.RateLimitHit(kind)

		c.Header("Retry-After", fmt.Sprintf("%d", int(rate.Period.Seconds())))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
			Success: false,
			Error:   "Too many requests. Please try again later.",
		})
	}))

	logging.Logger.WithFields(logrus.Fields{
		"limit_type":    kind,
		"limit_per_min": limit,
	}).Info("Rate limiting enabled")
	return handler, nil
}
