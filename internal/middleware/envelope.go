package middleware

import (
	"shoppinglist-api/internal/models"

	"github.com/gin-gonic/gin"
)

// abortWithError stops the chain and writes the failure envelope
func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Success: false,
		Error:   message,
	})
}
