package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/campusmeet/campusmeet-api/internal/application"
	"github.com/campusmeet/campusmeet-api/internal/infrastructure/memory"
)

type socialEnv struct {
	engine *gin.Engine
	svc    *userapp.Service
	events *memory.EventStore
}

func newSocialEnv(t *testing.T, userID string) *socialEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	events := memory.NewEventStore()
	svc := userapp.NewService(memory.NewUserRepository(events), nil, nil, logger)

	engine := gin.New()
	h := NewSocialHandler(svc, logger)
	authed := engine.Group("/api", asUser(userID))
	authed.GET("/events/joined", h.JoinedEvents)
	authed.POST("/events/:eventId/join", h.JoinEvent)
	authed.DELETE("/events/:eventId/join", h.LeaveEvent)
	authed.GET("/invitations", h.Invitations)
	authed.POST("/invitations", h.SendInvitation)
	authed.POST("/invitations/:eventId/accept", h.AcceptInvitation)
	authed.POST("/invitations/:eventId/decline", h.DeclineInvitation)
	authed.GET("/favorites", h.Favorites)
	authed.POST("/favorites/:eventId", h.AddFavorite)
	authed.DELETE("/favorites/:eventId", h.RemoveFavorite)
	authed.GET("/organizations/following", h.FollowedOrganizations)
	authed.POST("/organizations/:orgId/follow", h.FollowOrganization)
	authed.DELETE("/organizations/:orgId/follow", h.UnfollowOrganization)

	return &socialEnv{engine: engine, svc: svc, events: events}
}

func (e *socialEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func listData(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return envelope.Data
}

func TestJoinAndLeaveEventEndpoints(t *testing.T) {
	env := newSocialEnv(t, "u-1")

	if w := env.do(t, http.MethodPost, "/api/events/e-1/join", nil); w.Code != http.StatusOK {
		t.Fatalf("join: %d", w.Code)
	}
	w := env.do(t, http.MethodGet, "/api/events/joined", nil)
	var envelope struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode joined: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0] != "e-1" {
		t.Fatalf("joined = %v", envelope.Data)
	}
	if w := env.do(t, http.MethodDelete, "/api/events/e-1/join", nil); w.Code != http.StatusOK {
		t.Fatalf("leave: %d", w.Code)
	}
}

func TestSendInvitationEndpoint(t *testing.T) {
	env := newSocialEnv(t, "owner")
	env.events.SetOwner("e-1", "owner")

	w := env.do(t, http.MethodPost, "/api/invitations", map[string]any{
		"event_id": "e-1", "to_user_id": "guest",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("send: %d body=%s", w.Code, w.Body.String())
	}

	// not the owner of this event
	env.events.SetOwner("e-2", "someone-else")
	w = env.do(t, http.MethodPost, "/api/invitations", map[string]any{
		"event_id": "e-2", "to_user_id": "guest",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner send: %d", w.Code)
	}

	// missing fields
	w = env.do(t, http.MethodPost, "/api/invitations", map[string]any{"event_id": "e-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad payload: %d", w.Code)
	}
}

func TestInvitationEndpointsLifecycle(t *testing.T) {
	env := newSocialEnv(t, "guest")
	env.events.SetOwner("e-1", "guest") // guest owns it so it can invite itself
	env.events.SetOwner("e-2", "guest")

	for _, id := range []string{"e-1", "e-2"} {
		w := env.do(t, http.MethodPost, "/api/invitations", map[string]any{
			"event_id": id, "to_user_id": "guest",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("send %s: %d", id, w.Code)
		}
	}

	if w := env.do(t, http.MethodPost, "/api/invitations/e-1/accept", nil); w.Code != http.StatusOK {
		t.Fatalf("accept: %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/invitations/e-2/decline", nil); w.Code != http.StatusOK {
		t.Fatalf("decline: %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/invitations", nil)
	invs := listData(t, w)
	if len(invs) != 1 || invs[0]["event_id"] != "e-2" || invs[0]["status"] != "declined" {
		t.Fatalf("invitations = %v", invs)
	}
}

func TestFavoriteEndpoints(t *testing.T) {
	env := newSocialEnv(t, "u-1")

	if w := env.do(t, http.MethodPost, "/api/favorites/e-1", nil); w.Code != http.StatusOK {
		t.Fatalf("add favorite: %d", w.Code)
	}
	favs := listData(t, env.do(t, http.MethodGet, "/api/favorites", nil))
	if len(favs) != 1 || favs[0]["event_id"] != "e-1" {
		t.Fatalf("favorites = %v", favs)
	}
	if w := env.do(t, http.MethodDelete, "/api/favorites/e-1", nil); w.Code != http.StatusOK {
		t.Fatalf("remove favorite: %d", w.Code)
	}
	if favs := listData(t, env.do(t, http.MethodGet, "/api/favorites", nil)); len(favs) != 0 {
		t.Fatalf("favorites after remove = %v", favs)
	}
}

func TestFollowEndpoints(t *testing.T) {
	env := newSocialEnv(t, "u-1")

	if w := env.do(t, http.MethodPost, "/api/organizations/org-1/follow", nil); w.Code != http.StatusOK {
		t.Fatalf("follow: %d", w.Code)
	}
	follows := listData(t, env.do(t, http.MethodGet, "/api/organizations/following", nil))
	if len(follows) != 1 || follows[0]["organization_id"] != "org-1" {
		t.Fatalf("follows = %v", follows)
	}
	if w := env.do(t, http.MethodDelete, "/api/organizations/org-1/follow", nil); w.Code != http.StatusOK {
		t.Fatalf("unfollow: %d", w.Code)
	}
}
