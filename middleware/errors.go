package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-backend/apperror"
)

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last error recorded on the context as the JSON error body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		kind := apperror.KindOf(err)
		status := kind.Status()

		entry := logrus.WithFields(logrus.Fields{
			"requestId": c.GetString(requestIDKey),
			"kind":      kind.String(),
			"path":      c.Request.URL.Path,
		})
		if status >= http.StatusInternalServerError {
			entry.Errorf("ErrorHandler: request failed err = %v", err)
		} else {
			entry.Debugf("ErrorHandler: request rejected err = %v", err)
		}

		label := "fail"
		if status >= http.StatusInternalServerError {
			label = "error"
		}
		c.JSON(status, gin.H{"status": label, "message": apperror.Message(err)})
	}
}

// Recovery turns a panic into an internal error handled by ErrorHandler.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		logrus.WithField("requestId", c.GetString(requestIDKey)).Errorf("Recovery: panic recovered: %v", recovered)
		abort(c, apperror.Internal(fmt.Errorf("panic: %v", recovered), ""))
	})
}

// NotFound answers requests that match no route.
func NotFound(c *gin.Context) {
	_ = c.Error(apperror.NotFound("Route %s not found", c.Request.URL.Path))
}
