package handlers

import (
	"net/http"
	"strconv"

	"shophub_backend/internal/models"
	"shophub_backend/internal/services"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	*BaseHandler
	blogService services.BlogService
	roleService services.RoleService
}

func NewBlogHandler(v *validator.Validator, blogService services.BlogService, roleService services.RoleService) *BlogHandler {
	return &BlogHandler{
		BaseHandler: NewBaseHandler(v),
		blogService: blogService,
		roleService: roleService,
	}
}

// RegisterPublicRoutes - чтение без аутентификации
func (h *BlogHandler) RegisterPublicRoutes(api *gin.RouterGroup) {
	group := api.Group("/blogs")
	{
		group.GET("", h.FindAll)
		group.GET("/:idOrSlug", h.FindOne)
	}
}

// RegisterRoutes - маршруты, требующие аутентификации
func (h *BlogHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/blogs")
	{
		group.POST("", h.Create)
		group.PATCH("/:idOrSlug", h.Update)
		group.DELETE("/:idOrSlug", h.Delete)
	}
}

func (h *BlogHandler) Create(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateBlogRequest
	if err := c.ShouldBind(&req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !h.validate(c, &req) {
		return
	}

	// Обложка опциональна и приходит тем же multipart-полем image
	if _, err := c.FormFile("image"); err == nil {
		image, closeFiles, ok := singleFormFile(c, "image")
		if !ok {
			return
		}
		defer closeFiles()
		req.Image = &image
	}

	resp, err := h.blogService.Create(c.Request.Context(), c.Query("shopId"), &req, principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BlogHandler) Update(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateBlogRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.blogService.Update(c.Request.Context(), c.Param("idOrSlug"), &req, principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BlogHandler) FindOne(c *gin.Context) {
	idOrSlug := c.Param("idOrSlug")

	// Сначала как id, затем как слаг
	resp, err := h.blogService.FindByID(c.Request.Context(), idOrSlug)
	if err != nil {
		resp, err = h.blogService.FindBySlug(c.Request.Context(), idOrSlug)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BlogHandler) FindAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := models.BlogStatus(c.Query("status"))

	resp, err := h.blogService.FindAll(c.Request.Context(), status, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	isAdmin, err := h.roleService.CheckUserRole(c.Request.Context(), principal.UserID, models.RoleAdmin, "")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.blogService.SoftDelete(c.Request.Context(), c.Param("idOrSlug"), principal, isAdmin); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blog deleted"})
}
