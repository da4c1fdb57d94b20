package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/checklist-api/internal/container"
	handlers "github.com/oksasatya/checklist-api/internal/interface/http"
	"github.com/oksasatya/checklist-api/internal/interface/middleware"
	"github.com/oksasatya/checklist-api/pkg/helpers"
)

// AuthModule wires the Google sign-in and profile routes.
// Public: POST /api/auth/google
// Protected: GET /api/auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/auth/google", loginLimiter, m.Handler.GoogleLogin)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/auth/me", m.Handler.Me)
	}
}
