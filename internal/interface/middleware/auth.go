package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
	"github.com/oksasatya/go-ddd-account-service/pkg/response"
)

const CtxAccountIDKey = "accountID"

// SessionChecker reports whether a session id is the live session of an account.
type SessionChecker interface {
	SessionActive(ctx context.Context, accountID, sid string) bool
}

// Auth validates the access token cookie (or a Bearer header) and the session
// it belongs to, then stores the account id in the context.
func Auth(sessions SessionChecker, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}
		if sessions != nil && !sessions.SessionActive(c.Request.Context(), claims.AccountID, claims.SessionID) {
			response.Fail(c, http.StatusUnauthorized, "session not found", nil)
			return
		}
		c.Set(CtxAccountIDKey, claims.AccountID)
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessCookie); err == nil && token != "" {
		return token
	}
	const prefix = "Bearer "
	if h := c.GetHeader("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
