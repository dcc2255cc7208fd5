package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware writes one line per request: method, path, status and
// latency. Query strings are included so filtered listings are traceable.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		log.Printf("%s %s -> %d (%v)",
			c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
