package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/campusmeet/campusmeet-api/internal/interface/http"
	"github.com/campusmeet/campusmeet-api/internal/interface/middleware"
	"github.com/campusmeet/campusmeet-api/pkg/helpers"
)

// SocialModule wires the social-graph routes: joined events, invitations,
// favorites and organization follows. Everything here requires auth.
type SocialModule struct {
	Handler *handlers.SocialHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewSocialModule(h *handlers.SocialHandler, jwt *helpers.JWTManager, rdb *redis.Client) *SocialModule {
	return &SocialModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *SocialModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/events/joined", m.Handler.JoinedEvents)
		auth.POST("/events/:eventId/join", m.Handler.JoinEvent)
		auth.DELETE("/events/:eventId/join", m.Handler.LeaveEvent)

		auth.GET("/invitations", m.Handler.Invitations)
		auth.POST("/invitations", m.Handler.SendInvitation)
		auth.POST("/invitations/:eventId/accept", m.Handler.AcceptInvitation)
		auth.POST("/invitations/:eventId/decline", m.Handler.DeclineInvitation)

		auth.GET("/favorites", m.Handler.Favorites)
		auth.POST("/favorites/:eventId", m.Handler.AddFavorite)
		auth.DELETE("/favorites/:eventId", m.Handler.RemoveFavorite)

		auth.GET("/organizations/following", m.Handler.FollowedOrganizations)
		auth.POST("/organizations/:orgId/follow", m.Handler.FollowOrganization)
		auth.DELETE("/organizations/:orgId/follow", m.Handler.UnfollowOrganization)
	}
}
