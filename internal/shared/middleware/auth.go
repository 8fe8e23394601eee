package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"
)

// Context keys set by Auth and read by handlers and RequireRole.
const (
	CtxUserID       = "userID"
	CtxUsername     = "username"
	CtxRole         = "role"
	CtxTokenID      = "tokenID"
	CtxTokenExpires = "tokenExpiresAt"
)

// DenylistKeyPrefix is where logged-out token ids live in the cache.
const DenylistKeyPrefix = "auth:denylist:"

// Auth validates the bearer token, rejects revoked tokens and puts the
// authenticated actor into the request context.
func Auth(tokens *jwt.Manager, denylist cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "invalid user id in token")
			return
		}

		// A token that was logged out is dead even if it still verifies.
		if denylist != nil {
			var revoked bool
			found, err := denylist.Get(c.Request.Context(), DenylistKeyPrefix+claims.ID, &revoked)
			if err == nil && found {
				abortUnauthorized(c, "token has been revoked")
				return
			}
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExpires, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
	c.Abort()
}
