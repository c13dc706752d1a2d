package handlers

import (
	"net/http"

	"shophub_backend/internal/models"
	"shophub_backend/internal/services"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/validator"
	"shophub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ShopFileHandler struct {
	*BaseHandler
	fileService services.ShopFileService
	roleService services.RoleService
}

func NewShopFileHandler(v *validator.Validator, fileService services.ShopFileService, roleService services.RoleService) *ShopFileHandler {
	return &ShopFileHandler{
		BaseHandler: NewBaseHandler(v),
		fileService: fileService,
		roleService: roleService,
	}
}

func (h *ShopFileHandler) RegisterRoutes(group *gin.RouterGroup) {
	files := group.Group("/files")
	{
		files.GET("/:fileType", h.FindByType)
		files.POST("/:fileType", h.Upload)
		files.PATCH("/activation", h.ToggleActivation)
		files.DELETE("", h.Delete)
	}
}

func (h *ShopFileHandler) Upload(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}
	shopID := c.Param("shopId")
	fileType := models.FileType(c.Param("fileType"))

	// Право на категорию проверяется до открытия файлов
	allowed, err := h.roleService.AllowedFileTypes(c.Request.Context(), principal.UserID, shopID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !fileTypePermitted(fileType, allowed) {
		h.HandleServiceError(c, apperrors.ErrFileTypeNotAllowed(string(fileType)))
		return
	}

	files, closeFiles, ok := openFormFiles(c, "files")
	if !ok {
		return
	}
	defer closeFiles()

	resp, err := h.fileService.UploadFiles(c.Request.Context(), shopID, fileType, files, principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ShopFileHandler) ToggleActivation(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}
	shopID := c.Param("shopId")

	var req dto.ToggleActivationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	allowed, err := h.roleService.AllowedFileTypes(c.Request.Context(), principal.UserID, shopID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.fileService.ToggleActivation(c.Request.Context(), shopID, req.FileIDs, principal, allowed); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "activation updated"})
}

func (h *ShopFileHandler) Delete(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}
	shopID := c.Param("shopId")

	var req dto.DeleteFilesRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	allowed, err := h.roleService.AllowedFileTypes(c.Request.Context(), principal.UserID, shopID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.fileService.SoftDeleteFiles(c.Request.Context(), shopID, req.FileIDs, principal, allowed); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "files deleted"})
}

func (h *ShopFileHandler) FindByType(c *gin.Context) {
	shopID := c.Param("shopId")
	fileType := models.FileType(c.Param("fileType"))

	items, err := h.fileService.FindShopFilesByType(c.Request.Context(), shopID, fileType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func fileTypePermitted(fileType models.FileType, allowed []models.FileType) bool {
	if allowed == nil {
		return true
	}
	for _, t := range allowed {
		if t == fileType {
			return true
		}
	}
	return false
}
