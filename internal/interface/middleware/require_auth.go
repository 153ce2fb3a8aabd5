package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pennyflow/backend/internal/application"
	"github.com/pennyflow/backend/internal/auth"
	"github.com/pennyflow/backend/pkg/response"
)

const (
	// CtxUserIDKey is the Gin context key holding the authenticated user's ID.
	CtxUserIDKey = "userID"
	// CtxUserKey holds the loaded *entity.User.
	CtxUserKey = "user"
)

// RequireAuth verifies the bearer token (cookie or Authorization header),
// loads the user it names, and injects both into the request context. Every
// failure mode answers the same 401 INVALID_TOKEN so callers cannot tell a
// forged token from an expired one or a deleted account.
func RequireAuth(tokens *auth.TokenIssuer, svc *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c)
			return
		}
		uid, err := tokens.Verify(token, time.Now())
		if err != nil {
			unauthorized(c)
			return
		}
		u, err := svc.GetUser(c.Request.Context(), uid)
		if err != nil {
			unauthorized(c)
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if t, err := c.Cookie("access_token"); err == nil && t != "" {
		return t
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func unauthorized(c *gin.Context) {
	response.Error[any](c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token", nil)
	c.Abort()
}
