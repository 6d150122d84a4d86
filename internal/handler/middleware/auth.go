package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/response"
)

const ContextKeyUser = "current_user"

// Authenticator resolves a bearer access token to an active user. A token
// that cannot be accepted yields service.ErrInvalidToken; any other error
// is a server failure.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
}

// JWTAuth resolves the bearer token, when present, to the current user.
// Requests without a token pass through as anonymous; a bad token is a 401.
func JWTAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, "Authorization header must contain two space-delimited values")
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			response.Unauthorized(c, "Given token not valid for any token type")
			c.Abort()
			return
		case err != nil:
			_ = c.Error(err)
			response.InternalError(c, "A server error occurred.")
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// RequireUser rejects anonymous requests. Must run after JWTAuth.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			response.Unauthorized(c, "Authentication credentials were not provided.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
