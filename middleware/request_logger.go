package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/util"
)

// RequestLogger logs each HTTP request as a console event with method, path,
// status and duration. Persistent audit records are written separately by
// the token-issuing handlers.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		util.LogEvent(util.Event{
			EventType: util.EventEndpointCall,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d (%dms)", c.Request.Method, c.Request.URL.Path, status, duration.Milliseconds()),
		})
	}
}
