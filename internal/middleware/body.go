package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meurdo/meurdo-api/internal/modules/serializer"
)

// BodyLimit rejects bodies declared larger than n with 413 and caps the rest
// at n bytes, so an oversized chunked body fails binding with 400.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				serializer.Err(http.StatusRequestEntityTooLarge, "request body too large", nil))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
