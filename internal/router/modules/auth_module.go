package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-account-service/internal/interface/http"
	"github.com/oksasatya/go-ddd-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
)

type AuthModule struct {
	Handler  *handlers.AuthHandler
	Sessions middleware.SessionChecker
	JWT      *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, sessions middleware.SessionChecker, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Sessions: sessions, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	rg.POST("/login", limit(10, time.Minute, middleware.KeyByIP()), m.Handler.Login)
	rg.POST("/refresh", limit(60, time.Minute, middleware.KeyByIP()), m.Handler.Refresh)
	rg.POST("/email/verify", limit(30, time.Minute, middleware.KeyByIPAndPath()), m.Handler.VerifyEmail)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Sessions, m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/email/verification-notification", limit(6, time.Minute, middleware.KeyByAccountID()), m.Handler.SendVerificationNotification)
	}
}
