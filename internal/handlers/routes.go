package handlers

import (
	_ "shoppinglist-api/docs"
	"shoppinglist-api/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Routes wires the list and item handlers. ReadLimit and WriteLimit are
// optional per-method limiters.
type Routes struct {
	Lists      *ListHandler
	Items      *ItemHandler
	ReadLimit  gin.HandlerFunc
	WriteLimit gin.HandlerFunc
}

// Register mounts the shopping list API on group
func (r Routes) Register(group *gin.RouterGroup) {
	read := r.chain(r.ReadLimit)
	write := r.chain(r.WriteLimit)
	listID := middleware.IDValidator("id")
	itemIDs := middleware.IDValidator("id", "itemId")

	lists := group.Group("/lists")
	{
		lists.GET("", append(read, r.Lists.GetAllLists)...)
		lists.POST("", append(write, r.Lists.CreateList)...)

		lists.GET("/:id", append(read, listID, r.Lists.GetList)...)
		lists.PUT("/:id", append(write, listID, r.Lists.UpdateList)...)
		lists.DELETE("/:id", append(write, listID, r.Lists.DeleteList)...)

		lists.GET("/:id/items", append(read, listID, r.Items.GetItems)...)
		lists.POST("/:id/items", append(write, listID, r.Items.CreateItem)...)
		lists.GET("/:id/items/:itemId", append(read, itemIDs, r.Items.GetItem)...)
		lists.PUT("/:id/items/:itemId", append(write, itemIDs, r.Items.UpdateItem)...)
		lists.DELETE("/:id/items/:itemId", append(write, itemIDs, r.Items.DeleteItem)...)
	}
}

// chain returns a fresh slice so appends never share a backing array
func (r Routes) chain(limit gin.HandlerFunc) []gin.HandlerFunc {
	if limit == nil {
		return nil
	}
	return []gin.HandlerFunc{limit}
}

// RegisterHealthRoutes mounts the health endpoints on router
func RegisterHealthRoutes(router gin.IRouter, h *HealthHandler) {
	health := router.Group("/health")
	{
		health.GET("", h.BasicHealth)
		health.GET("/detailed", h.DetailedHealth)
		health.GET("/ready", h.ReadinessProbe)
		health.GET("/live", h.LivenessProbe)
	}
}

// RegisterDocsRoutes serves the OpenAPI description and Swagger UI
func RegisterDocsRoutes(router gin.IRouter) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
