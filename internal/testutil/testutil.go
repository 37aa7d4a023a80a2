package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shoppinglist-api/internal/database"
	"shoppinglist-api/internal/ids"
	"shoppinglist-api/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database with the application
// schema, including the generated check constraints
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	// every connection to ":memory:" is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.EnsureSchema(db), "Failed to create schema")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Now returns the current time the way the service stamps documents
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// CreateTestList builds a list document ready to insert
func CreateTestList(name string) *models.List {
	now := Now()
	return &models.List{
		ID:        ids.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestItem builds an item document with the default field values
func CreateTestItem(listID, name string) *models.Item {
	now := Now()
	return &models.Item{
		ID:        ids.New(),
		ListID:    listID,
		Name:      name,
		Qty:       1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MakeJSONRequest creates an HTTP request with JSON body. A string or
// []byte body is sent verbatim.
func MakeJSONRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	case []byte:
		payload = b
	default:
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ParseJSONResponse parses a JSON response into a target structure
func ParseJSONResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), target)
	require.NoError(t, err, "Failed to parse JSON response: %s", w.Body.String())
}

// StringPtr returns a pointer to a string value
func StringPtr(s string) *string {
	return &s
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// Float64Ptr returns a pointer to a float64 value
func Float64Ptr(f float64) *float64 {
	return &f
}

// Int32Ptr returns a pointer to an int32 value
func Int32Ptr(i int32) *int32 {
	return &i
}
