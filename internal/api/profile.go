package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry-chef/backend/internal/middleware"
	"github.com/pageza/pantry-chef/backend/internal/service"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// ProfileHandler serves the caller's profile and avatar uploads
type ProfileHandler struct {
	profiles service.IProfileService
	store    StoreState
	verifier middleware.TokenVerifier
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles service.IProfileService, store StoreState, verifier middleware.TokenVerifier) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, store: store, verifier: verifier}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile", protected(h.verifier)...)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.POST("/avatar", h.CreateAvatarUpload)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	if _, err := h.store.Require(); err != nil {
		_ = c.Error(err)
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	if _, err := h.store.Require(); err != nil {
		_ = c.Error(err)
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) CreateAvatarUpload(c *gin.Context) {
	var req types.AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	upload, err := h.profiles.CreateAvatarUpload(c.Request.Context(), middleware.UserID(c), req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrAvatarStorageUnavailable) {
			_ = c.Error(types.Unavailable(err))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, upload)
}
