package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Role hierarchy: admins may do anything a librarian may, librarians
// anything a reader may.
var roleRank = map[string]int{
	"reader":    1,
	"librarian": 2,
	"admin":     3,
}

// RequireRole gates a route on a minimum role. Must run after Auth.
func RequireRole(minRole string) gin.HandlerFunc {
	required := roleRank[minRole]

	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if roleRank[role] < required || required == 0 {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "access denied: " + minRole + " role required",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
