package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/campusmeet/campusmeet-api/internal/application"
	"github.com/campusmeet/campusmeet-api/internal/domain/entity"
	"github.com/campusmeet/campusmeet-api/internal/interface/middleware"
	"github.com/campusmeet/campusmeet-api/pkg/response"
	"github.com/campusmeet/campusmeet-api/pkg/validation"
)

// SocialHandler serves the social-graph side of the user aggregate: joined
// events, invitations, favorites and organization follows. All routes are
// authenticated; the acting user always comes from the token.
type SocialHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewSocialHandler(svc *userapp.Service, logger *logrus.Logger) *SocialHandler {
	return &SocialHandler{Svc: svc, Logger: logger}
}

func (h *SocialHandler) JoinEvent(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.JoinEvent(c.Request.Context(), uid, c.Param("eventId")); err != nil {
		response.Error[any](c, statusFor(err), "failed to join event", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"joined": true}, "event joined", nil)
}

func (h *SocialHandler) LeaveEvent(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.LeaveEvent(c.Request.Context(), uid, c.Param("eventId")); err != nil {
		response.Error[any](c, statusFor(err), "failed to leave event", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"left": true}, "event left", nil)
}

func (h *SocialHandler) JoinedEvents(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	events, err := h.Svc.JoinedEvents(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to list joined events", err.Error())
		return
	}
	response.Success(c, http.StatusOK, events, "joined events", nil)
}

type sendInvitationRequest struct {
	EventID  string `json:"event_id" binding:"required"`
	ToUserID string `json:"to_user_id" binding:"required"`
}

func (h *SocialHandler) SendInvitation(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req sendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.SendInvitation(c.Request.Context(), req.EventID, uid, req.ToUserID); err != nil {
		response.Error[any](c, statusFor(err), "failed to send invitation", err.Error())
		return
	}
	response.Success[any](c, http.StatusCreated, gin.H{"sent": true}, "invitation sent", nil)
}

func invitationJSON(inv entity.Invitation) gin.H {
	return gin.H{
		"event_id":  inv.EventID,
		"from":      inv.From,
		"timestamp": inv.Timestamp,
		"status":    string(inv.Status),
	}
}

func (h *SocialHandler) Invitations(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	invs, err := h.Svc.Invitations(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to list invitations", err.Error())
		return
	}
	out := make([]gin.H, 0, len(invs))
	for _, inv := range invs {
		out = append(out, invitationJSON(inv))
	}
	response.Success(c, http.StatusOK, out, "invitations", nil)
}

func (h *SocialHandler) AcceptInvitation(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.AcceptInvitation(c.Request.Context(), uid, c.Param("eventId")); err != nil {
		response.Error[any](c, statusFor(err), "failed to accept invitation", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"accepted": true}, "invitation accepted", nil)
}

func (h *SocialHandler) DeclineInvitation(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.DeclineInvitation(c.Request.Context(), uid, c.Param("eventId")); err != nil {
		response.Error[any](c, statusFor(err), "failed to decline invitation", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"declined": true}, "invitation declined", nil)
}

func (h *SocialHandler) AddFavorite(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.AddFavorite(c.Request.Context(), uid, c.Param("eventId")); err != nil {
		response.Error[any](c, statusFor(err), "failed to add favorite", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"favorited": true}, "favorite added", nil)
}

func (h *SocialHandler) RemoveFavorite(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.RemoveFavorite(c.Request.Context(), uid, c.Param("eventId")); err != nil {
		response.Error[any](c, statusFor(err), "failed to remove favorite", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "favorite removed", nil)
}

func (h *SocialHandler) Favorites(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	favs, err := h.Svc.Favorites(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to list favorites", err.Error())
		return
	}
	out := make([]gin.H, 0, len(favs))
	for _, f := range favs {
		out = append(out, gin.H{"event_id": f.EventID, "added_at": f.AddedAt})
	}
	response.Success(c, http.StatusOK, out, "favorites", nil)
}

func (h *SocialHandler) FollowOrganization(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.FollowOrganization(c.Request.Context(), uid, c.Param("orgId")); err != nil {
		response.Error[any](c, statusFor(err), "failed to follow organization", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"following": true}, "organization followed", nil)
}

func (h *SocialHandler) UnfollowOrganization(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.UnfollowOrganization(c.Request.Context(), uid, c.Param("orgId")); err != nil {
		response.Error[any](c, statusFor(err), "failed to unfollow organization", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"following": false}, "organization unfollowed", nil)
}

func (h *SocialHandler) FollowedOrganizations(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	follows, err := h.Svc.FollowedOrganizations(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to list followed organizations", err.Error())
		return
	}
	out := make([]gin.H, 0, len(follows))
	for _, f := range follows {
		out = append(out, gin.H{"organization_id": f.OrganizationID, "followed_at": f.FollowedAt})
	}
	response.Success(c, http.StatusOK, out, "followed organizations", nil)
}
