package handlers

import (
	"net/http"

	"shophub_backend/internal/services"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(v *validator.Validator, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(v),
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/profile")
	{
		group.GET("", h.Me)
		group.GET("/:userId", h.FindByUser)
		group.PATCH("", h.Update)
	}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	resp, err := h.profileService.FindByUserID(c.Request.Context(), principal.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) FindByUser(c *gin.Context) {
	resp, err := h.profileService.FindByUserID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !h.validate(c, &req) {
		return
	}

	// Аватар опционален и приходит тем же multipart-полем avatar
	if _, err := c.FormFile("avatar"); err == nil {
		avatar, closeFiles, ok := singleFormFile(c, "avatar")
		if !ok {
			return
		}
		defer closeFiles()
		req.Avatar = &avatar
	}

	resp, err := h.profileService.Update(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
