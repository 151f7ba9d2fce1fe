package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/lockward/internal/api/middleware"
	"github.com/Wikid82/lockward/internal/services"
)

// statusFor maps a service error kind onto an HTTP status.
func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindBadRequest:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindDuplicateIdentifier:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError is the single place where service errors become HTTP
// responses. Storage failures are logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := services.KindOf(err)
	status := statusFor(kind)

	msg := "internal server error"
	var svcErr *services.Error
	if kind != services.KindStorage && errors.As(err, &svcErr) && svcErr.Message != "" {
		msg = svcErr.Message
	}
	if status == http.StatusInternalServerError {
		middleware.GetRequestLogger(c).WithError(err).Error("request failed")
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badInput(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
