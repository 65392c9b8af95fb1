package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewServer creates the read-only status API. The scan and item listing
// endpoints require the access key when one is configured.
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", handler.GetHealth)

	if apiAccessKey != "" {
		authorized := r.Group("/api")
		authorized.Use(authMiddleware(apiAccessKey))
		{
			authorized.GET("/scans", handler.ListScans)
			authorized.GET("/items", handler.ListItems)
		}
		slog.Info("API endpoints enabled with authentication")
	} else {
		r.GET("/api/scans", handler.ListScans)
		r.GET("/api/items", handler.ListItems)
	}

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return r
}

// authMiddleware checks the access key in the X-API-Key header or a
// bearer Authorization header.
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" || providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "valid API key required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
