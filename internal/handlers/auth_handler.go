package handlers

import (
	"net/http"

	"shophub_backend/internal/auth"
	"shophub_backend/internal/services"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	tokens      *auth.TokenManager
}

func NewAuthHandler(v *validator.Validator, authService services.AuthService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(v),
		authService: authService,
		tokens:      tokens,
	}
}

func (h *AuthHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/auth")
	{
		group.POST("/otp", h.SendOtp)
		group.POST("/otp/verify", h.VerifyOtp)
		group.POST("/refresh", h.RefreshTokens)
	}
}

// RegisterProtectedRoutes закрыты AuthMiddleware
func (h *AuthHandler) RegisterProtectedRoutes(api *gin.RouterGroup) {
	api.POST("/auth/logout", h.Logout)
}

func (h *AuthHandler) SendOtp(c *gin.Context) {
	var req dto.SendOtpRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.authService.SendOtp(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req dto.VerifyOtpRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyOtp(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) RefreshTokens(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.authService.RefreshTokens(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := h.CurrentPrincipal(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), principal.UserID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
