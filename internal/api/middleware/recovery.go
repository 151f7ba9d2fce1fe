package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery converts a handler panic into a JSON 500 that carries the request
// id, so a controller operator can quote it when reporting the failure.
// verbose adds the stack and sanitized headers to the log entry.
func Recovery(verbose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			fields := logrus.Fields{
				"panic":  fmt.Sprint(r),
				"method": c.Request.Method,
				"path":   SanitizePath(c.Request.URL.Path),
			}
			if verbose {
				fields["headers"] = SanitizeHeaders(c.Request.Header)
				fields["stack"] = string(debug.Stack())
			}
			GetRequestLogger(c).WithFields(fields).Error("handler panicked")

			// Part of a response already went out; nothing sane to add.
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "internal server error",
				"request_id": c.GetString(RequestIDKey),
			})
		}()
		c.Next()
	}
}
