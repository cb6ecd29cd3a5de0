package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
)

// ContextAccountKey is the gin context key holding the entity.Account.
const ContextAccountKey = "account"

// Middleware rejects requests without a valid bearer token and attaches the account to
// both the gin context and the request context.
func Middleware(v *Verifier, l port.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		acct, err := v.Verify(token)
		if err != nil {
			l.Debug("Rejected access token", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextAccountKey, acct)
		c.Request = c.Request.WithContext(entity.ContextWithAccount(c.Request.Context(), acct))
		c.Next()
	}
}
