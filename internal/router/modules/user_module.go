package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/campusmeet/campusmeet-api/internal/interface/http"
	"github.com/campusmeet/campusmeet-api/internal/interface/middleware"
	"github.com/campusmeet/campusmeet-api/pkg/helpers"
)

// UserModule wires the user account and profile routes.
// Public: POST /api/users, GET /api/users/check-username
// Protected: profile CRUD plus the user directory listings.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP
	checkLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.GET("/users/check-username", checkLimiter, m.Handler.CheckUsername)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.PATCH("/profile", m.Handler.PatchProfile)
		auth.DELETE("/profile", m.Handler.DeleteAccount)

		auth.GET("/users", m.Handler.ListUsers)
		auth.GET("/users/by-university", m.Handler.UsersByUniversity)
		auth.GET("/users/by-hobby", m.Handler.UsersByHobby)
		auth.GET("/users/:id", m.Handler.GetUser)
	}
}
