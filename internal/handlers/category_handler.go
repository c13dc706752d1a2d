package handlers

import (
	"net/http"

	"shophub_backend/internal/services"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	*BaseHandler
	categoryService services.CategoryService
}

func NewCategoryHandler(v *validator.Validator, categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler:     NewBaseHandler(v),
		categoryService: categoryService,
	}
}

// RegisterPublicRoutes - чтение дерева категорий без аутентификации
func (h *CategoryHandler) RegisterPublicRoutes(api *gin.RouterGroup) {
	group := api.Group("/categories")
	{
		group.GET("", h.FindTree)
		group.GET("/:idOrSlug", h.FindOne)
	}
}

// RegisterAdminRoutes - управление категориями, только платформенный
// администратор
func (h *CategoryHandler) RegisterAdminRoutes(group *gin.RouterGroup) {
	categories := group.Group("/categories")
	{
		categories.POST("", h.Create)
		categories.PATCH("/:idOrSlug", h.Update)
		categories.DELETE("/:idOrSlug", h.Delete)
	}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !h.validate(c, &req) {
		return
	}

	if _, err := c.FormFile("image"); err == nil {
		image, closeFiles, ok := singleFormFile(c, "image")
		if !ok {
			return
		}
		defer closeFiles()
		req.Image = &image
	}

	resp, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.categoryService.Update(c.Request.Context(), c.Param("idOrSlug"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) FindOne(c *gin.Context) {
	idOrSlug := c.Param("idOrSlug")

	resp, err := h.categoryService.FindByID(c.Request.Context(), idOrSlug)
	if err != nil {
		resp, err = h.categoryService.FindBySlug(c.Request.Context(), idOrSlug)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) FindTree(c *gin.Context) {
	onlyVisible := c.DefaultQuery("all", "false") != "true"

	items, err := h.categoryService.FindTree(c.Request.Context(), onlyVisible)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("idOrSlug")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
