package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shoppinglist-api/internal/middleware"
	"shoppinglist-api/internal/service"
	"shoppinglist-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutesApplyLimiters(t *testing.T) {
	setupTest()
	store := storage.NewMemoryStorage()
	limiters := middleware.NewRateLimiters(&middleware.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 2,
		ReadMultiplier: 2,
		WriteDivisor:   2,
		KeyPrefix:      "routes",
	}, nil, nil)
	read, err := limiters.Read()
	require.NoError(t, err)
	write, err := limiters.Write()
	require.NoError(t, err)

	router := gin.New()
	Routes{
		Lists:      NewListHandler(service.NewListService(store)),
		Items:      NewItemHandler(service.NewItemService(store)),
		ReadLimit:  read,
		WriteLimit: write,
	}.Register(router.Group("/api"))

	w, _ := do(t, router, http.MethodPost, "/api/lists", map[string]interface{}{"name": "Groceries"})
	assert.Equal(t, http.StatusCreated, w.Code)
	w, env := do(t, router, http.MethodPost, "/api/lists", map[string]interface{}{"name": "Hardware"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests. Please try again later.", env.Error)

	for i := 0; i < 4; i++ {
		w, _ = do(t, router, http.MethodGet, "/api/lists", nil)
		assert.Equal(t, http.StatusOK, w.Code, "read %d", i+1)
	}
	w, _ = do(t, router, http.MethodGet, "/api/lists", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRoutesValidateIDsBeforeHandlers(t *testing.T) {
	router := newTestRouter(storage.NewMemoryStorage())

	tests := []struct {
		method  string
		path    string
		message string
	}{
		{http.MethodGet, "/api/lists/123", "Invalid list ID"},
		{http.MethodPut, "/api/lists/123", "Invalid list ID"},
		{http.MethodDelete, "/api/lists/123", "Invalid list ID"},
		{http.MethodGet, "/api/lists/123/items", "Invalid list ID"},
		{http.MethodPost, "/api/lists/123/items", "Invalid list ID"},
		{http.MethodGet, "/api/lists/" + missingID + "/items/123", "Invalid item ID"},
		{http.MethodPut, "/api/lists/" + missingID + "/items/123", "Invalid item ID"},
		{http.MethodDelete, "/api/lists/" + missingID + "/items/123", "Invalid item ID"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w, env := do(t, router, tt.method, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, env.Error)
		})
	}
}

func TestHealthRoutes(t *testing.T) {
	setupTest()
	router := gin.New()
	RegisterHealthRoutes(router, NewHealthHandler(nil, "test"))

	for _, path := range []string{"/health", "/health/detailed", "/health/ready", "/health/live"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestDocsRoutes(t *testing.T) {
	setupTest()
	router := gin.New()
	RegisterDocsRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title": "Shopping List API"`)
	assert.Contains(t, w.Body.String(), `"/lists/{id}/items/{itemId}"`)
}
