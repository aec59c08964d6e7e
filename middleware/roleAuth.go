package middleware

import (
	"github.com/gin-gonic/gin"

	"storefront-backend/apperror"
)

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			abort(c, apperror.Unauthorized("No token found in header"))
			return
		}
		if !p.IsAdmin {
			abort(c, apperror.Forbidden("Access denied, admin only"))
			return
		}
		c.Next()
	}
}
