package handlers

import (
	"net/http"

	"shoppinglist-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListHandler handles shopping list operations
type ListHandler struct {
	lists *service.ListService
}

// NewListHandler creates a new list handler
func NewListHandler(lists *service.ListService) *ListHandler {
	return &ListHandler{lists: lists}
}

// GetAllLists handles GET /lists
// @Summary List shopping lists
// @Description Returns every list, newest first
// @Tags Lists
// @Produce json
// @Success 200 {object} models.Response{data=[]models.List}
// @Failure 500 {object} models.ErrorResponse
// @Router /lists [get]
func (h *ListHandler) GetAllLists(c *gin.Context) {
	lists, err := h.lists.All(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve lists")
		return
	}
	respondData(c, http.StatusOK, lists)
}

// GetList handles GET /lists/:id
// @Summary Get a list with its items
// @Tags Lists
// @Produce json
// @Param id path string true "List ID"
// @Success 200 {object} models.Response{data=models.ListDetail}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/{id} [get]
func (h *ListHandler) GetList(c *gin.Context) {
	detail, err := h.lists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve list")
		return
	}
	respondData(c, http.StatusOK, detail)
}

// CreateList handles POST /lists
// @Summary Create a list
// @Tags Lists
// @Accept json
// @Produce json
// @Param list body object true "List body: {name}"
// @Success 201 {object} models.Response{data=models.List}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists [post]
func (h *ListHandler) CreateList(c *gin.Context) {
	body, ok := bindOrAbort(c)
	if !ok {
		return
	}

	list, err := h.lists.Create(c.Request.Context(), body)
	if err != nil {
		respondError(c, err, "Failed to create list")
		return
	}
	respondData(c, http.StatusCreated, list)
}

// UpdateList handles PUT /lists/:id
// @Summary Rename a list
// @Tags Lists
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param list body object true "List body: {name}"
// @Success 200 {object} models.Response{data=models.List}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/{id} [put]
func (h *ListHandler) UpdateList(c *gin.Context) {
	body, ok := bindOrAbort(c)
	if !ok {
		return
	}

	list, err := h.lists.Rename(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		respondError(c, err, "Failed to update list")
		return
	}
	respondData(c, http.StatusOK, list)
}

// DeleteList handles DELETE /lists/:id
// @Summary Delete a list
// @Description Items of the list are kept unless cascading deletes are enabled
// @Tags Lists
// @Produce json
// @Param id path string true "List ID"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/{id} [delete]
func (h *ListHandler) DeleteList(c *gin.Context) {
	if err := h.lists.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete list")
		return
	}
	respondMessage(c, "List deleted")
}
