package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"shoppinglist-api/internal/models"
	"shoppinglist-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const missingID = "0123456789abcdef0123456789abcdef"

func createList(t *testing.T, router *gin.Engine, name string) models.List {
	t.Helper()
	w, env := do(t, router, http.MethodPost, "/api/lists", map[string]interface{}{"name": name})
	require.Equal(t, http.StatusCreated, w.Code)

	var list models.List
	data(t, env, &list)
	return list
}

func TestCreateList(t *testing.T) {
	forEachStore(t, func(t *testing.T, router *gin.Engine) {
		t.Run("successfully creates a list", func(t *testing.T) {
			list := createList(t, router, "  Groceries ")

			assert.Len(t, list.ID, 32)
			assert.Equal(t, "Groceries", list.Name)
			assert.False(t, list.CreatedAt.IsZero())
			assert.Equal(t, list.CreatedAt, list.UpdatedAt)
		})

		tests := []struct {
			name    string
			body    interface{}
			message string
		}{
			{"missing name", map[string]interface{}{}, "List name is required"},
			{"blank name", map[string]interface{}{"name": "   "}, "List name is required"},
			{"numeric name", map[string]interface{}{"name": 42}, "List name must be a string"},
			{"null name", `{"name":null}`, "List name is required"},
			{"empty body", "", "List name is required"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w, env := do(t, router, http.MethodPost, "/api/lists", tt.body)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.False(t, env.Success)
				assert.Equal(t, tt.message, env.Error)
				require.NotEmpty(t, env.Details)
				assert.Equal(t, "name", env.Details[0].Field)
			})
		}

		t.Run("rejects malformed JSON", func(t *testing.T) {
			for _, body := range []string{`{"name":`, `["Groceries"]`, `"Groceries"`, `{"name":"a"} {}`} {
				w, env := do(t, router, http.MethodPost, "/api/lists", body)

				assert.Equal(t, http.StatusBadRequest, w.Code, body)
				assert.Equal(t, "Invalid request body", env.Error)
			}
		})
	})
}

func TestGetAllLists(t *testing.T) {
	forEachStore(t, func(t *testing.T, router *gin.Engine) {
		w, env := do(t, router, http.MethodGet, "/api/lists", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var lists []models.List
		data(t, env, &lists)
		assert.Empty(t, lists)
		assert.Equal(t, "[]", string(env.Data))

		first := createList(t, router, "First")
		second := createList(t, router, "Second")

		_, env = do(t, router, http.MethodGet, "/api/lists", nil)
		data(t, env, &lists)
		require.Len(t, lists, 2)
		assert.Equal(t, second.ID, lists[0].ID, "newest first")
		assert.Equal(t, first.ID, lists[1].ID)
	})
}

func TestGetList(t *testing.T) {
	forEachStore(t, func(t *testing.T, router *gin.Engine) {
		list := createList(t, router, "Groceries")
		w, _ := do(t, router, http.MethodPost, "/api/lists/"+list.ID+"/items", map[string]interface{}{"name": "Milk", "picked": true})
		require.Equal(t, http.StatusCreated, w.Code)

		t.Run("returns list with items", func(t *testing.T) {
			w, env := do(t, router, http.MethodGet, "/api/lists/"+list.ID, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var detail models.ListDetail
			data(t, env, &detail)
			assert.Equal(t, list.ID, detail.ID)
			assert.Equal(t, "Groceries", detail.Name)
			require.Len(t, detail.Items, 1)
			assert.True(t, detail.Items[0].Checked)
			assert.True(t, detail.Items[0].Picked)
		})

		t.Run("upper case id finds the list", func(t *testing.T) {
			w, _ := do(t, router, http.MethodGet, "/api/lists/"+strings.ToUpper(list.ID), nil)
			assert.Equal(t, http.StatusOK, w.Code)
		})

		t.Run("missing list", func(t *testing.T) {
			w, env := do(t, router, http.MethodGet, "/api/lists/"+missingID, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "List not found", env.Error)
		})

		t.Run("malformed id", func(t *testing.T) {
			w, env := do(t, router, http.MethodGet, "/api/lists/not-an-id", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid list ID", env.Error)
		})
	})
}

func TestUpdateList(t *testing.T) {
	forEachStore(t, func(t *testing.T, router *gin.Engine) {
		list := createList(t, router, "Groceries")

		w, env := do(t, router, http.MethodPut, "/api/lists/"+list.ID, map[string]interface{}{"name": "Weekly shop"})
		require.Equal(t, http.StatusOK, w.Code)

		var renamed models.List
		data(t, env, &renamed)
		assert.Equal(t, "Weekly shop", renamed.Name)
		assert.True(t, renamed.UpdatedAt.After(list.UpdatedAt))
		assert.True(t, renamed.CreatedAt.Equal(list.CreatedAt))

		w, env = do(t, router, http.MethodPut, "/api/lists/"+list.ID, map[string]interface{}{"name": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "List name cannot be empty", env.Error)

		w, env = do(t, router, http.MethodPut, "/api/lists/"+missingID, map[string]interface{}{"name": "Other"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "List not found", env.Error)
	})
}

func TestDeleteList(t *testing.T) {
	forEachStore(t, func(t *testing.T, router *gin.Engine) {
		list := createList(t, router, "Groceries")

		w, env := do(t, router, http.MethodDelete, "/api/lists/"+list.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.Equal(t, "List deleted", env.Message)

		w, env = do(t, router, http.MethodDelete, "/api/lists/"+list.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "List not found", env.Error)
	})
}

type brokenStore struct {
	*storage.MemoryStorage
	err error
}

func (s *brokenStore) FindLists(context.Context) ([]models.List, error) {
	return nil, s.err
}

func (s *brokenStore) InsertItem(context.Context, *models.Item) error {
	return s.err
}

func TestListStoreFailureIsGeneric(t *testing.T) {
	router := newTestRouter(&brokenStore{
		MemoryStorage: storage.NewMemoryStorage(),
		err:           errors.New("dial tcp 10.0.0.5:5432: connection refused"),
	})

	w, env := do(t, router, http.MethodGet, "/api/lists", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Failed to retrieve lists", env.Error)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestListStoreTimeout(t *testing.T) {
	router := newTestRouter(&brokenStore{
		MemoryStorage: storage.NewMemoryStorage(),
		err:           fmt.Errorf("find lists: %w", context.DeadlineExceeded),
	})

	w, env := do(t, router, http.MethodGet, "/api/lists", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Request timed out", env.Error)
}
