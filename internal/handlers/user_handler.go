package handlers

import (
	"net/http"

	"shophub_backend/internal/services"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(v *validator.Validator, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(v),
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/users")
	{
		group.GET("/me", h.Me)
		group.PATCH("/me/identity", h.UpdateIdentity)
		group.POST("/me/national-card", h.UploadNationalCard)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	resp, err := h.userService.FindByID(c.Request.Context(), principal.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateIdentity(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateIdentityRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.userService.UpdateIdentity(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UploadNationalCard(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	file, closeFiles, ok := singleFormFile(c, "file")
	if !ok {
		return
	}
	defer closeFiles()

	resp, err := h.userService.UploadNationalCard(c.Request.Context(), principal.UserID, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
