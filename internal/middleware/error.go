package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Errors string `json:"errors"`
}

// Recovery turns panics into a JSON 500 and logs them.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Errors: "internal server error"})
			}
		}()

		c.Next()
	}
}

// NoRoute answers unknown paths in the same error shape.
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Errors: "not found"})
}
