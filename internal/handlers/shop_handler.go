package handlers

import (
	"net/http"

	"shophub_backend/internal/models"
	"shophub_backend/internal/services"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	*BaseHandler
	shopService services.ShopService
	roleService services.RoleService
}

func NewShopHandler(v *validator.Validator, shopService services.ShopService, roleService services.RoleService) *ShopHandler {
	return &ShopHandler{
		BaseHandler: NewBaseHandler(v),
		shopService: shopService,
		roleService: roleService,
	}
}

// RegisterRoutes - маршруты, доступные любому аутентифицированному
// пользователю; защита shop-scoped маршрутов навешивается в routes
func (h *ShopHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/shops")
	{
		group.POST("", h.Create)
		group.GET("/my", h.MyShops)
		group.GET("/:shopId", h.FindOne)
		group.GET("/:shopId/location", h.FindLocation)
	}
}

// RegisterShopAdminRoutes - маршруты администратора магазина
func (h *ShopHandler) RegisterShopAdminRoutes(group *gin.RouterGroup) {
	group.PATCH("", h.Update)
	group.PUT("/location", h.UpsertLocation)
}

// RegisterAdminRoutes - административные шаги верификации
func (h *ShopHandler) RegisterAdminRoutes(group *gin.RouterGroup) {
	group.POST("/:shopId/verification/review", h.StartVerificationReview)
	group.POST("/:shopId/verification/approve", h.ApproveVerification)
}

func (h *ShopHandler) Create(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateShopRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.shopService.Create(c.Request.Context(), &req, principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ShopHandler) Update(c *gin.Context) {
	var req dto.UpdateShopRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.shopService.Update(c.Request.Context(), c.Param("shopId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ShopHandler) FindOne(c *gin.Context) {
	resp, err := h.shopService.FindOneByID(c.Request.Context(), c.Param("shopId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ShopHandler) MyShops(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	items, err := h.shopService.FindAllUserShops(c.Request.Context(), principal.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ShopHandler) UpsertLocation(c *gin.Context) {
	var req dto.ShopLocationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.shopService.UpsertLocation(c.Request.Context(), c.Param("shopId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ShopHandler) FindLocation(c *gin.Context) {
	resp, err := h.shopService.FindLocation(c.Request.Context(), c.Param("shopId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ShopHandler) StartVerificationReview(c *gin.Context) {
	if err := h.shopService.StartVerificationReview(c.Request.Context(), c.Param("shopId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.VerificationInProgress})
}

func (h *ShopHandler) ApproveVerification(c *gin.Context) {
	if err := h.shopService.ApproveVerification(c.Request.Context(), c.Param("shopId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.VerificationVerified})
}
