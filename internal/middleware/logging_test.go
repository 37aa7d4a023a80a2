package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shoppinglist-api/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	setupTest()
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("reuses client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "client-trace-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "client-trace-1", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "client-trace-1", w.Body.String())
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", 200))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", GetRequestID(c))
}

func TestRequestLogger(t *testing.T) {
	setupTest()
	var buf bytes.Buffer
	previous := logging.Logger
	logging.InitLogger(&logging.LogConfig{Level: "info", JSONFormat: true, Console: &buf})
	defer func() { logging.Logger = previous }()

	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/api/lists/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/api/lists", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		path  string
		level string
		msg   string
		route string
	}{
		{"/api/lists", "info", "Request completed", "/api/lists"},
		{"/api/lists/0123456789abcdef0123456789abcdef", "warning", "Client error", "/api/lists/:id"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(RequestIDHeader, "trace-42")
			router.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, tt.msg, entry["msg"])
			assert.Equal(t, tt.route, entry["route"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, "trace-42", entry["request_id"])
		})
	}
}
