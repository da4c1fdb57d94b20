package router

import (
	app "github.com/oksasatya/checklist-api/internal/application"
	"github.com/oksasatya/checklist-api/internal/container"
	pginfra "github.com/oksasatya/checklist-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/checklist-api/internal/interface/http"
	"github.com/oksasatya/checklist-api/internal/router/modules"
)

func buildAuthModule() *modules.AuthModule {
	users := pginfra.NewUserRepository(container.GetPGPool())
	svc := app.NewAuthService(users, container.GetVerifier(), container.GetJWT(), container.GetLogger())
	return modules.NewAuthModule(handlers.NewAuthHandler(svc, container.GetLogger()), container.GetJWT())
}

func buildChecklistModule() *modules.ChecklistModule {
	repo := pginfra.NewChecklistRepository(container.GetPGPool())
	svc := app.NewChecklistService(repo, container.GetLogger(), container.GetES(), container.GetConfig().ESChecklistsIndex)
	return modules.NewChecklistModule(handlers.NewChecklistHandler(svc, container.GetLogger()), container.GetJWT())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	r.Add(buildAuthModule())
	r.Add(buildChecklistModule())
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
