package main

import (
	"fmt"

	"shoppinglist-api/internal/handlers"
	"shoppinglist-api/internal/metrics"
	"shoppinglist-api/internal/middleware"
	"shoppinglist-api/internal/redisclient"
	"shoppinglist-api/internal/service"
	"shoppinglist-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// dependencies are the long lived handles main constructs and owns
type dependencies struct {
	store    storage.Store
	db       *gorm.DB // nil on in-memory storage
	redis    *redisclient.Client
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// newRouter assembles the middleware chain and every route
func newRouter(cfg *serverConfig, deps dependencies) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	stores := middleware.MemoryStores()
	if deps.redis != nil {
		stores = middleware.RedisStores(deps.redis.Client)
	}
	limiters := middleware.NewRateLimiters(cfg.RateLimit, stores, deps.metrics)
	global, err := limiters.Global()
	if err != nil {
		return nil, err
	}
	read, err := limiters.Read()
	if err != nil {
		return nil, err
	}
	write, err := limiters.Write()
	if err != nil {
		return nil, err
	}

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.CORS),
		middleware.RequestSizeLimit(cfg.Security.MaxRequestBodySize),
		middleware.RequestTimeout(cfg.RequestTimeout),
		middleware.RequestLogger(),
		middleware.Metrics(deps.metrics),
		middleware.ErrorSanitizer(),
	)

	opts := []service.Option{
		service.WithClock(service.NewClock(nil)),
		service.WithMetrics(deps.metrics),
		service.WithCascadeDelete(cfg.CascadeDelete),
	}

	api := router.Group("/api", global)
	handlers.Routes{
		Lists:      handlers.NewListHandler(service.NewListService(deps.store, opts...)),
		Items:      handlers.NewItemHandler(service.NewItemService(deps.store, opts...)),
		ReadLimit:  read,
		WriteLimit: write,
	}.Register(api)

	health := handlers.NewHealthHandler(deps.db, version)
	if deps.redis != nil {
		health.WithRedis(deps.redis)
	}
	handlers.RegisterHealthRoutes(router, health)

	if cfg.MetricsEnabled && deps.registry != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(deps.registry)))
	}
	if cfg.SwaggerEnabled {
		handlers.RegisterDocsRoutes(router)
	}

	return router, nil
}
