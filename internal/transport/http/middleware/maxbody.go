package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "clindoeil-api/internal/transport/http/response"
)

// MaxBodyBytes caps the request body; uploads make the ceiling generous.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Err() != nil && !c.Writer.Written() {
			resp.AbortFail(c, http.StatusRequestEntityTooLarge, "request body too large")
		}
	}
}
