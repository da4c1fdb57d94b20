package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/checklist-api/internal/container"
	handlers "github.com/oksasatya/checklist-api/internal/interface/http"
	"github.com/oksasatya/checklist-api/internal/interface/middleware"
	"github.com/oksasatya/checklist-api/pkg/helpers"
)

// ChecklistModule wires the checklist CRUD and item routes.
// All routes require a bearer token and share per-IP and per-user limiters.
type ChecklistModule struct {
	Handler *handlers.ChecklistHandler
	JWT     *helpers.JWTManager
}

func NewChecklistModule(h *handlers.ChecklistHandler, jwt *helpers.JWTManager) *ChecklistModule {
	return &ChecklistModule{Handler: h, JWT: jwt}
}

func (m *ChecklistModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/checklists")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("", m.Handler.List)
		auth.POST("", m.Handler.Create)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)

		auth.POST("/:id/items", m.Handler.CreateItem)
		auth.PUT("/:id/items/:itemID", m.Handler.UpdateItem)
		auth.DELETE("/:id/items/:itemID", m.Handler.DeleteItem)
		auth.PATCH("/:id/items/:itemID/toggle", m.Handler.ToggleItem)
	}
}
