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
	"github.com/campusmeet/campusmeet-api/internal/domain/entity"
	"github.com/campusmeet/campusmeet-api/internal/infrastructure/memory"
	"github.com/campusmeet/campusmeet-api/internal/interface/middleware"
)

// asUser fakes the auth middleware by injecting a fixed user id.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, id)
		c.Next()
	}
}

type testEnv struct {
	engine *gin.Engine
	svc    *userapp.Service
	events *memory.EventStore
	authed *gin.RouterGroup
}

func newEnv(t *testing.T, userID string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	events := memory.NewEventStore()
	svc := userapp.NewService(memory.NewUserRepository(events), nil, nil, logger)

	engine := gin.New()
	api := engine.Group("/api")
	h := NewUserHandler(svc, logger)
	api.POST("/users", h.Register)
	api.GET("/users/check-username", h.CheckUsername)

	authed := api.Group("/", asUser(userID))
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.PATCH("/profile", h.PatchProfile)
	authed.DELETE("/profile", h.DeleteAccount)
	authed.GET("/users", h.ListUsers)
	authed.GET("/users/by-university", h.UsersByUniversity)
	authed.GET("/users/by-hobby", h.UsersByHobby)
	authed.GET("/users/:id", h.GetUser)

	return &testEnv{engine: engine, svc: svc, events: events, authed: authed}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
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

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return envelope.Data
}

func registerBody(username, email string) map[string]any {
	return map[string]any{
		"email":      email,
		"username":   username,
		"first_name": "Ana",
		"last_name":  "Petrova",
		"university": "TU Munich",
		"hobbies":    []string{"climbing"},
	}
}

func TestRegisterEndpoint(t *testing.T) {
	env := newEnv(t, "")
	w := env.do(t, http.MethodPost, "/api/users", registerBody("ana.petrova", "ana@example.edu"))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	if data["id"] == "" || data["username"] != "ana.petrova" {
		t.Fatalf("data = %v", data)
	}
}

func TestRegisterEndpointRejectsBadPayload(t *testing.T) {
	env := newEnv(t, "")
	body := registerBody("ana.petrova", "ana@example.edu")
	delete(body, "email")
	w := env.do(t, http.MethodPost, "/api/users", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRegisterEndpointConflict(t *testing.T) {
	env := newEnv(t, "")
	env.do(t, http.MethodPost, "/api/users", registerBody("ana.petrova", "ana@example.edu"))
	w := env.do(t, http.MethodPost, "/api/users", registerBody("ana.petrova", "other@example.edu"))
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
}

func TestProfileLifecycle(t *testing.T) {
	seedEnv := newEnv(t, "")
	w := seedEnv.do(t, http.MethodPost, "/api/users", registerBody("ana.petrova", "ana@example.edu"))
	id, _ := decodeData(t, w)["id"].(string)
	if id == "" {
		t.Fatalf("no id in register response")
	}

	// rebuild routes authed as the new user, sharing the same service
	env := &testEnv{svc: seedEnv.svc, events: seedEnv.events}
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	env.engine = gin.New()
	api := env.engine.Group("/api")
	h := NewUserHandler(env.svc, logger)
	authed := api.Group("/", asUser(id))
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.PATCH("/profile", h.PatchProfile)
	authed.DELETE("/profile", h.DeleteAccount)

	w = env.do(t, http.MethodGet, "/api/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get profile: %d", w.Code)
	}

	// omitted fields stay, explicit empty string clears
	w = env.do(t, http.MethodPut, "/api/profile", map[string]any{"bio": "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d body=%s", w.Code, w.Body.String())
	}
	if data := decodeData(t, w); data["bio"] != "hello" || data["username"] != "ana.petrova" {
		t.Fatalf("update data = %v", data)
	}
	w = env.do(t, http.MethodPut, "/api/profile", map[string]any{"bio": ""})
	if data := decodeData(t, w); data["bio"] != "" {
		t.Fatalf("bio not cleared: %v", data["bio"])
	}

	// invalid update is unprocessable
	w = env.do(t, http.MethodPut, "/api/profile", map[string]any{"email": "bad"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid update: %d", w.Code)
	}

	// patch with a whitelisted field
	w = env.do(t, http.MethodPatch, "/api/profile", map[string]any{entity.FieldBio: "patched"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: %d body=%s", w.Code, w.Body.String())
	}
	// patch with a forbidden field
	w = env.do(t, http.MethodPatch, "/api/profile", map[string]any{entity.FieldCreatedAt: 0})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("patch forbidden field: %d", w.Code)
	}

	w = env.do(t, http.MethodDelete, "/api/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/profile", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("profile after delete: %d", w.Code)
	}
}

func TestListUsersPagination(t *testing.T) {
	env := newEnv(t, "viewer")
	for _, n := range []string{"user.one", "user.two", "user.three"} {
		w := env.do(t, http.MethodPost, "/api/users", registerBody(n, n+"@example.edu"))
		if w.Code != http.StatusCreated {
			t.Fatalf("seed %s: %d", n, w.Code)
		}
	}

	w := env.do(t, http.MethodGet, "/api/users?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var envelope struct {
		Data []map[string]any `json:"data"`
		Meta map[string]any   `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("page size = %d", len(envelope.Data))
	}
	if envelope.Meta["has_more"] != true {
		t.Fatalf("meta = %v", envelope.Meta)
	}
	cursor, _ := envelope.Meta["next_cursor"].(string)
	if cursor == "" {
		t.Fatalf("no next_cursor with has_more")
	}

	w = env.do(t, http.MethodGet, "/api/users?limit=2&cursor="+cursor, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode page 2: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Meta["has_more"] == true {
		t.Fatalf("page 2: %d items, meta %v", len(envelope.Data), envelope.Meta)
	}

	w = env.do(t, http.MethodGet, "/api/users?limit=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: %d", w.Code)
	}
}

func TestDirectoryFilters(t *testing.T) {
	env := newEnv(t, "viewer")
	env.do(t, http.MethodPost, "/api/users", registerBody("ana.petrova", "ana@example.edu"))

	w := env.do(t, http.MethodGet, "/api/users/by-university?university=TU+Munich", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("by-university: %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/users/by-university", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing university: %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/users/by-hobby?hobby=climbing", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("by-hobby: %d", w.Code)
	}
}

func TestCheckUsernameEndpoint(t *testing.T) {
	env := newEnv(t, "")
	env.do(t, http.MethodPost, "/api/users", registerBody("ana.petrova", "ana@example.edu"))

	w := env.do(t, http.MethodGet, "/api/users/check-username?username=ana.petrova", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("check: %d", w.Code)
	}
	if data := decodeData(t, w); data["available"] != false {
		t.Fatalf("taken username reported available: %v", data)
	}
	w = env.do(t, http.MethodGet, "/api/users/check-username?username=fresh.name", nil)
	if data := decodeData(t, w); data["available"] != true {
		t.Fatalf("fresh username reported taken: %v", data)
	}
	w = env.do(t, http.MethodGet, "/api/users/check-username", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing username: %d", w.Code)
	}
}
