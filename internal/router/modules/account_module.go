package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-account-service/internal/interface/http"
	"github.com/oksasatya/go-ddd-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
)

// AccountModule wires registration and profile routes.
// Public: POST /api/register
// Protected: GET /api/profile, PUT /api/profile, DELETE /api/profile/photo, GET /api/accounts/search
type AccountModule struct {
	Handler  *handlers.AccountHandler
	Sessions middleware.SessionChecker
	JWT      *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, sessions middleware.SessionChecker, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, Sessions: sessions, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", limit(10, time.Minute, middleware.KeyByIP()), m.Handler.Register)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Sessions, m.JWT))
	auth.Use(
		limit(300, time.Minute, middleware.KeyByIP()),
		limit(120, time.Minute, middleware.KeyByAccountID()),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.DELETE("/profile/photo", m.Handler.DeleteProfilePhoto)
		auth.GET("/accounts/search", m.Handler.Search)
	}
}
