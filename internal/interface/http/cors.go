package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = "600"

// corsMiddleware lets the configured dashboard origins call the API.
// An empty list or a "*" entry allows any origin without credentials.
// Unlisted origins get no CORS headers at all.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(allowed))
	wildcard := len(allowed) == 0
	for _, origin := range allowed {
		origin = strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
		if origin == "*" {
			wildcard = true
			continue
		}
		if origin != "" {
			origins[origin] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		headers := c.Writer.Header()
		headers.Add("Vary", "Origin")

		requestOrigin := c.GetHeader("Origin")
		if _, ok := origins[strings.ToLower(requestOrigin)]; ok {
			headers.Set("Access-Control-Allow-Origin", requestOrigin)
			headers.Set("Access-Control-Allow-Credentials", "true")
		} else if wildcard {
			headers.Set("Access-Control-Allow-Origin", "*")
		} else if requestOrigin != "" {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		headers.Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After")
		if c.Request.Method == http.MethodOptions {
			headers.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			headers.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			headers.Set("Access-Control-Max-Age", corsMaxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
