package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/campusmeet/campusmeet-api/internal/application"
	"github.com/campusmeet/campusmeet-api/internal/domain/entity"
	"github.com/campusmeet/campusmeet-api/internal/interface/middleware"
	"github.com/campusmeet/campusmeet-api/pkg/response"
	"github.com/campusmeet/campusmeet-api/pkg/validation"
)

const defaultPageSize = 20

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email             string   `json:"email" binding:"required,email"`
	Username          string   `json:"username" binding:"required,min=3,max=20"`
	FirstName         string   `json:"first_name" binding:"required,max=100"`
	LastName          string   `json:"last_name" binding:"required,max=100"`
	University        string   `json:"university" binding:"required,max=200"`
	Hobbies           []string `json:"hobbies"`
	ProfilePictureURL string   `json:"profile_picture_url" binding:"omitempty,url"`
	Bio               string   `json:"bio" binding:"max=500"`
}

// updateProfileRequest distinguishes omitted fields (nil pointer, left
// untouched) from fields explicitly sent empty (cleared).
type updateProfileRequest struct {
	Email             *string   `json:"email"`
	Username          *string   `json:"username"`
	FirstName         *string   `json:"first_name"`
	LastName          *string   `json:"last_name"`
	University        *string   `json:"university"`
	Hobbies           *[]string `json:"hobbies"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	Bio               *string   `json:"bio"`
}

func (r updateProfileRequest) toUpdate() entity.UserUpdate {
	var up entity.UserUpdate
	if r.Email != nil {
		up.Email = entity.Set(*r.Email)
	}
	if r.Username != nil {
		up.Username = entity.Set(*r.Username)
	}
	if r.FirstName != nil {
		up.FirstName = entity.Set(*r.FirstName)
	}
	if r.LastName != nil {
		up.LastName = entity.Set(*r.LastName)
	}
	if r.University != nil {
		up.University = entity.Set(*r.University)
	}
	if r.Hobbies != nil {
		up.Hobbies = entity.Set(*r.Hobbies)
	}
	if r.ProfilePictureURL != nil {
		up.ProfilePictureURL = entity.Set(*r.ProfilePictureURL)
	}
	if r.Bio != nil {
		up.Bio = entity.Set(*r.Bio)
	}
	return up
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":                  u.ID,
		"email":               u.Email,
		"username":            u.Username,
		"first_name":          u.FirstName,
		"last_name":           u.LastName,
		"university":          u.University,
		"hobbies":             u.Hobbies,
		"profile_picture_url": u.ProfilePictureURL,
		"bio":                 u.Bio,
		"created_at":          u.CreatedAt,
		"updated_at":          u.UpdatedAt,
	}
}

func usersJSON(users []entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userJSON(&users[i]))
	}
	return out
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Email:             req.Email,
		Username:          req.Username,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		University:        req.University,
		Hobbies:           req.Hobbies,
		ProfilePictureURL: req.ProfilePictureURL,
		Bio:               req.Bio,
	})
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to register", err.Error())
		return
	}
	response.Success(c, http.StatusCreated, userJSON(u), "user registered", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, statusFor(err), "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "profile", nil)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, statusFor(err), "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "user", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, req.toUpdate())
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to update profile", err.Error())
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "profile updated", nil)
}

// patchableFields lists the record fields clients may patch directly.
var patchableFields = map[string]bool{
	entity.FieldEmail:             true,
	entity.FieldUsername:          true,
	entity.FieldFirstName:         true,
	entity.FieldLastName:          true,
	entity.FieldUniversity:        true,
	entity.FieldHobbies:           true,
	entity.FieldProfilePictureURL: true,
	entity.FieldBio:               true,
}

func (h *UserHandler) PatchProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	for k := range fields {
		if !patchableFields[k] {
			response.Error[any](c, http.StatusBadRequest, "field not patchable", gin.H{"field": k})
			return
		}
	}
	if err := h.Svc.PatchProfile(c.Request.Context(), uid, fields); err != nil {
		response.Error[any](c, statusFor(err), "failed to patch profile", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"patched": true}, "profile patched", nil)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.DeleteAccount(c.Request.Context(), uid); err != nil {
		response.Error[any](c, statusFor(err), "failed to delete account", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "account deleted", nil)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	limit := defaultPageSize
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.Error[any](c, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		limit = n
	}
	page, err := h.Svc.ListUsers(c.Request.Context(), limit, c.Query("cursor"))
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to list users", err.Error())
		return
	}
	meta := gin.H{"has_more": page.HasMore}
	if page.HasMore && len(page.Users) > 0 {
		meta["next_cursor"] = page.Users[len(page.Users)-1].ID
	}
	response.Success(c, http.StatusOK, usersJSON(page.Users), "users", meta)
}

func (h *UserHandler) UsersByUniversity(c *gin.Context) {
	university := c.Query("university")
	if university == "" {
		response.Error[any](c, http.StatusBadRequest, "university is required", nil)
		return
	}
	users, err := h.Svc.UsersByUniversity(c.Request.Context(), university)
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to list users", err.Error())
		return
	}
	response.Success(c, http.StatusOK, usersJSON(users), "users", nil)
}

func (h *UserHandler) UsersByHobby(c *gin.Context) {
	hobby := c.Query("hobby")
	if hobby == "" {
		response.Error[any](c, http.StatusBadRequest, "hobby is required", nil)
		return
	}
	users, err := h.Svc.UsersByHobby(c.Request.Context(), hobby)
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to list users", err.Error())
		return
	}
	response.Success(c, http.StatusOK, usersJSON(users), "users", nil)
}

func (h *UserHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.Error[any](c, http.StatusBadRequest, "username is required", nil)
		return
	}
	available, err := h.Svc.CheckUsername(c.Request.Context(), username)
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to check username", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"available": available}, "username availability", nil)
}
