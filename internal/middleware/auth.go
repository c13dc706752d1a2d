package middleware

import (
	"net/http"
	"strings"

	"shophub_backend/internal/auth"
	"shophub_backend/internal/logger"
	"shophub_backend/internal/models"
	"shophub_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT. Принципал кладется и в gin,
// и в request context, чтобы сервисы получали его явным параметром.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseAccessToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		principal := auth.Principal{UserID: claims.UserID, Mobile: claims.Mobile}
		c.Set("userID", claims.UserID)
		ctx := auth.WithPrincipal(c.Request.Context(), principal)
		ctx = logger.WithUserID(ctx, claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole пропускает только обладателей платформенной роли
func RequireRole(roles services.RoleService, roleName models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		has, err := roles.CheckUserRole(c.Request.Context(), principal.UserID, roleName, "")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Role check failed"})
			return
		}
		if !has {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}
		c.Next()
	}
}

// RequireShopRole пропускает платформенных администраторов и обладателей
// роли в магазине из параметра пути shopId
func RequireShopRole(roles services.RoleService, roleName models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		shopID := c.Param("shopId")
		if shopID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Shop id is required"})
			return
		}

		isAdmin, err := roles.CheckUserRole(c.Request.Context(), principal.UserID, models.RoleAdmin, "")
		if err == nil && isAdmin {
			c.Next()
			return
		}

		has, err := roles.CheckUserRole(c.Request.Context(), principal.UserID, roleName, shopID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Role check failed"})
			return
		}
		if !has {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role in this shop"})
			return
		}
		c.Next()
	}
}
