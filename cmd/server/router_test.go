package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shoppinglist-api/internal/logging"
	"shoppinglist-api/internal/metrics"
	"shoppinglist-api/internal/middleware"
	"shoppinglist-api/internal/storage"
	"shoppinglist-api/internal/testutil"
	"shoppinglist-api/internal/tls"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *serverConfig {
	return &serverConfig{
		Port:            "0",
		RequestTimeout:  time.Second,
		ShutdownTimeout: time.Second,
		SwaggerEnabled:  true,
		MetricsEnabled:  true,
		CORS: &middleware.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         3600,
		},
		Security:  &middleware.SecurityConfig{MaxRequestBodySize: 1024},
		RateLimit: &middleware.RateLimitConfig{Enabled: true, RequestsPerMin: 1000, ReadMultiplier: 2, WriteDivisor: 2, KeyPrefix: "test"},
		TLS:       &tls.Config{},
	}
}

func newTestServer(t *testing.T, cfg *serverConfig) *gin.Engine {
	t.Helper()
	logging.InitLogger(&logging.LogConfig{Level: "error", Console: io.Discard})
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()
	router, err := newRouter(cfg, dependencies{
		store:    storage.NewMemoryStorage(),
		registry: registry,
		metrics:  metrics.New(registry),
	})
	require.NoError(t, err)
	return router
}

func TestRouterServesAPI(t *testing.T) {
	router := newTestServer(t, testConfig())

	req := testutil.MakeJSONRequest(t, http.MethodPost, "/api/lists", map[string]string{"name": "Groceries"})
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	testutil.ParseJSONResponse(t, w, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "Groceries", body.Data.Name)
}

func TestRouterRejectsOversizedBody(t *testing.T) {
	router := newTestServer(t, testConfig())

	req := testutil.MakeJSONRequest(t, http.MethodPost, "/api/lists", `{"name":"`+strings.Repeat("x", 2048)+`"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouterExposesMetrics(t *testing.T) {
	router := newTestServer(t, testConfig())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/lists", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `shoppinglist_http_requests_total{method="GET",route="/api/lists",status="200"} 1`)
	assert.Contains(t, w.Body.String(), `shoppinglist_store_operations_total{operation="find_lists",outcome="ok"} 1`)
}

func TestRouterOptionalRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	cfg.SwaggerEnabled = false
	router := newTestServer(t, cfg)

	for _, path := range []string{"/metrics", "/swagger/doc.json"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var ready map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	assert.Equal(t, "ready", ready["status"])
}

func TestRouterInvalidTrustedProxies(t *testing.T) {
	cfg := testConfig()
	cfg.Security.TrustedProxies = []string{"not-an-ip"}

	logging.InitLogger(&logging.LogConfig{Level: "error", Console: io.Discard})
	_, err := newRouter(cfg, dependencies{store: storage.NewMemoryStorage()})
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("CASCADE_DELETE_ITEMS", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := loadConfig()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.CascadeDelete)
	assert.NotNil(t, cfg.CORS)
	assert.NotNil(t, cfg.RateLimit)
}
