package handlers

import (
	"net/http"

	"shoppinglist-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ItemHandler handles the items of a list
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// GetItems handles GET /lists/:id/items
// @Summary List the items of a list
// @Tags Items
// @Produce json
// @Param id path string true "List ID"
// @Success 200 {object} models.Response{data=[]models.ItemView}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/{id}/items [get]
func (h *ItemHandler) GetItems(c *gin.Context) {
	items, err := h.items.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve items")
		return
	}
	respondData(c, http.StatusOK, items)
}

// GetItem handles GET /lists/:id/items/:itemId
// @Summary Get one item of a list
// @Tags Items
// @Produce json
// @Param id path string true "List ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} models.Response{data=models.ItemView}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/{id}/items/{itemId} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.items.Get(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		respondError(c, err, "Failed to retrieve item")
		return
	}
	respondData(c, http.StatusOK, item)
}

// CreateItem handles POST /lists/:id/items
// @Summary Add an item to a list
// @Description Accepts quantity as an alias of qty and picked as an alias of checked
// @Tags Items
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param item body object true "Item body"
// @Success 201 {object} models.Response{data=models.ItemView}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/{id}/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	body, ok := bindOrAbort(c)
	if !ok {
		return
	}

	item, err := h.items.Create(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		respondError(c, err, "Failed to create item")
		return
	}
	respondData(c, http.StatusCreated, item)
}

// UpdateItem handles PUT /lists/:id/items/:itemId
// @Summary Update an item
// @Description Only the supplied fields change
// @Tags Items
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param itemId path string true "Item ID"
// @Param item body object true "Any subset of item fields"
// @Success 200 {object} models.Response{data=models.ItemView}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/{id}/items/{itemId} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	body, ok := bindOrAbort(c)
	if !ok {
		return
	}

	item, err := h.items.Update(c.Request.Context(), c.Param("id"), c.Param("itemId"), body)
	if err != nil {
		respondError(c, err, "Failed to update item")
		return
	}
	respondData(c, http.StatusOK, item)
}

// DeleteItem handles DELETE /lists/:id/items/:itemId
// @Summary Delete an item
// @Tags Items
// @Produce json
// @Param id path string true "List ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/{id}/items/{itemId} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.items.Delete(c.Request.Context(), c.Param("id"), c.Param("itemId")); err != nil {
		respondError(c, err, "Failed to delete item")
		return
	}
	respondMessage(c, "Item deleted")
}
