package middleware

import (
	"github.com/gin-gonic/gin"

	"ridersclub/backend/pkg/response"
)

// StaffOnly requires an authenticated staff user. Must run after JWTAuth.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "Authentication credentials were not provided.")
			c.Abort()
			return
		}
		if !user.IsStaff {
			response.Forbidden(c, "You do not have permission to perform this action.")
			c.Abort()
			return
		}
		c.Next()
	}
}
