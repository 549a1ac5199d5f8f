package httpx

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags every request with an id, minting one when the caller
// did not send X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("rid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// Logger writes one access line per request. Once Auth has run, the line
// also carries the authenticated shopper's id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rid, _ := c.Get("rid")
		actor := c.GetString(ActorKey)
		if actor == "" {
			actor = "-"
		}
		log.Printf("[http] rid=%v user=%s %s %s status=%d dur=%s",
			rid, actor, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
