package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	userapp "github.com/campusmeet/campusmeet-api/internal/application"
	handlers "github.com/campusmeet/campusmeet-api/internal/interface/http"
	"github.com/campusmeet/campusmeet-api/internal/router/modules"
	"github.com/campusmeet/campusmeet-api/pkg/helpers"
)

// Deps carries everything the feature modules need. Wiring is explicit so the
// same registry can be assembled against either backend, or against fakes in
// tests, without any package-level state.
type Deps struct {
	Service *userapp.Service
	Redis   *redis.Client
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
}

// InitModules builds the handlers and registers all feature modules with the
// router registry. Call once during startup.
func InitModules(r *Registry, deps Deps) {
	userHandler := handlers.NewUserHandler(deps.Service, deps.Logger)
	socialHandler := handlers.NewSocialHandler(deps.Service, deps.Logger)

	r.Add(modules.NewUserModule(userHandler, deps.JWT, deps.Redis))
	r.Add(modules.NewSocialModule(socialHandler, deps.JWT, deps.Redis))
	r.Add(modules.NewDebugModule(deps.Redis))
}
