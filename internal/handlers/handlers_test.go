package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"shoppinglist-api/internal/logging"
	"shoppinglist-api/internal/middleware"
	"shoppinglist-api/internal/service"
	"shoppinglist-api/internal/storage"
	"shoppinglist-api/internal/testutil"
	"shoppinglist-api/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var setupOnce sync.Once

func setupTest() {
	setupOnce.Do(func() {
		logging.InitLogger(&logging.LogConfig{
			Enabled: false,
			Level:   "error",
			Console: io.Discard,
		})
		gin.SetMode(gin.TestMode)
	})
}

// envelope is the decoded form of every API response
type envelope struct {
	Success bool                 `json:"success"`
	Data    json.RawMessage      `json:"data"`
	Message string               `json:"message"`
	Error   string               `json:"error"`
	Details []validation.Failure `json:"details"`
}

// newTestRouter mounts the API over store the way main does, without
// rate limiting
func newTestRouter(store storage.Store, opts ...service.Option) *gin.Engine {
	setupTest()
	clock := service.NewClock(nil)
	opts = append([]service.Option{service.WithClock(clock)}, opts...)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorSanitizer())
	Routes{
		Lists: NewListHandler(service.NewListService(store, opts...)),
		Items: NewItemHandler(service.NewItemService(store, opts...)),
	}.Register(router.Group("/api"))
	return router
}

// forEachStore runs fn against a router over the in-memory and the SQLite
// store
func forEachStore(t *testing.T, fn func(t *testing.T, router *gin.Engine)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, newTestRouter(storage.NewMemoryStorage()))
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newTestRouter(storage.NewSQLStorage(testutil.SetupTestDB(t))))
	})
}

func do(t *testing.T, router *gin.Engine, method, url string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, url, http.NoBody)
	} else {
		req = testutil.MakeJSONRequest(t, method, url, body)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	testutil.ParseJSONResponse(t, w, &env)
	return w, env
}

// data decodes the data member of a successful response into target
func data(t *testing.T, env envelope, target interface{}) {
	t.Helper()
	require.True(t, env.Success, "expected success, got error %q", env.Error)
	require.NoError(t, json.Unmarshal(env.Data, target))
}
