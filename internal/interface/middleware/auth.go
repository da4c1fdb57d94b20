package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/checklist-api/pkg/helpers"
	"github.com/oksasatya/checklist-api/pkg/response"
)

// CtxUserIDKey is the Gin context key holding the authenticated user ID.
const CtxUserIDKey = "userID"

// Auth validates the bearer token from the Authorization header and stores
// the token subject under CtxUserIDKey. Requests without a valid token get
// a uniform 401.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing or invalid authorization header", nil)
			c.Abort()
			return
		}

		userID, err := jwt.Verify(strings.TrimSpace(token))
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
