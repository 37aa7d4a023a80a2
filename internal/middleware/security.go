package middleware

import (
	"net/http"
	"strings"

	"shoppinglist-api/internal/ids"
	"shoppinglist-api/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SecurityConfig holds security middleware configuration
type SecurityConfig struct {
	MaxRequestBodySize int64    // Maximum request body size in bytes
	TrustedProxies     []string // List of trusted proxy IPs
}

// NewSecurityConfigFromEnv creates security config from environment variables
func NewSecurityConfigFromEnv() *SecurityConfig {
	return &SecurityConfig{
		MaxRequestBodySize: getEnvInt64("MAX_REQUEST_BODY_SIZE", 1048576), // 1MB
		TrustedProxies:     parseCommaSeparated(getEnv("TRUSTED_PROXIES", "")),
	}
}

// SecurityHeaders adds security-related HTTP headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")

		c.Next()
	}
}

// RequestSizeLimit limits the size of incoming request bodies. Bodies that
// lie about their length are cut off by http.MaxBytesReader and rejected by
// the handler that reads them.
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			logging.Logger.WithFields(logrus.Fields{
				"client_ip":      c.ClientIP(),
				"content_length": c.Request.ContentLength,
				"max_size":       maxSize,
			}).Warn("Request body too large")

			abortWithError(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// ErrorSanitizer logs errors attached to the context and, if a handler
// failed without writing a response, answers with a generic 500
func ErrorSanitizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		logging.Logger.WithFields(logrus.Fields{
			"request_id": GetRequestID(c),
			"client_ip":  c.ClientIP(),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"error":      err.Error(),
		}).Error("Request error")

		if !c.Writer.Written() {
			abortWithError(c, http.StatusInternalServerError, "An internal error occurred. Please try again later.")
		}
	}
}

// Messages for rejected path identifiers, keyed by route parameter
var idParamMessages = map[string]string{
	"id":     "Invalid list ID",
	"listId": "Invalid list ID",
	"itemId": "Invalid item ID",
}

// IDValidator rejects requests whose named path parameters are not valid
// document identifiers, before any handler touches the store
func IDValidator(params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, param := range params {
			value := c.Param(param)
			if ids.IsValid(value) {
				continue
			}

			logging.Logger.WithFields(logrus.Fields{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
				"param":     param,
				"value":     truncate(value, 64),
			}).Warn("Invalid identifier")

			message, ok := idParamMessages[param]
			if !ok {
				message = "Invalid ID"
			}
			abortWithError(c, http.StatusBadRequest, message)
			return
		}
		c.Next()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "..."
}
