package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nizy/tailor/internal/interfaces/http/dto"
)

// DefaultBodyLimit fits an order with many custom lines
const DefaultBodyLimit int64 = 1 << 20

// BodyLimit answers 413 up front when the declared length is over limit.
// Bodies sent without a length are cut off at limit while being read.
func BodyLimit(limit int64) gin.HandlerFunc {
	tooLarge := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Request body is too large", RequestIDOf(c)))
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			tooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
