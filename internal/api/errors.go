package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/rs/zerolog/log"
)

// statusFor maps a service error kind to an HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err as {"errors": ...}. Unclassified errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(status, middleware.ErrorResponse{Errors: "internal server error"})
		return
	}
	c.JSON(status, middleware.ErrorResponse{Errors: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Errors: msg})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Errors: "authentication credentials were not provided"})
}
