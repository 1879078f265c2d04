package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/theweboftrust/wot.id/service"
)

const (
	contextDIDKey     = "userDID"
	contextSessionKey = "userSession"
)

// AuthMiddleware creates middleware that validates access tokens. The token
// is taken from the Authorization header or, failing that, the session
// cookie. On success the verified DID and session are put on the context.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		session, err := authService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
			return
		}

		c.Set(contextDIDKey, session.DID)
		c.Set(contextSessionKey, session)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
