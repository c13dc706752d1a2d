package routes

import (
	"shophub_backend/internal/auth"
	"shophub_backend/internal/handlers"
	"shophub_backend/internal/middleware"
	"shophub_backend/internal/models"
	"shophub_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokens *auth.TokenManager,
	roleService services.RoleService,
) {
	api := ginRouter.Group("/api/v1")

	// Открытые маршруты
	appHandlers.AuthHandler.RegisterRoutes(api)
	appHandlers.BlogHandler.RegisterPublicRoutes(api)
	appHandlers.CategoryHandler.RegisterPublicRoutes(api)

	// Маршруты аутентифицированных пользователей
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(tokens))
	{
		appHandlers.AuthHandler.RegisterProtectedRoutes(authed)
		appHandlers.UserHandler.RegisterRoutes(authed)
		appHandlers.ProfileHandler.RegisterRoutes(authed)
		appHandlers.ShopHandler.RegisterRoutes(authed)
		appHandlers.BlogHandler.RegisterRoutes(authed)
	}

	// Маршруты в рамках магазина: администратор магазина или платформы
	shopScoped := authed.Group("/shops/:shopId")
	shopScoped.Use(middleware.RequireShopRole(roleService, models.RoleAdminShop))
	{
		appHandlers.ShopHandler.RegisterShopAdminRoutes(shopScoped)
		appHandlers.ShopFileHandler.RegisterRoutes(shopScoped)
	}

	// Административные маршруты платформы
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(roleService, models.RoleAdmin))
	{
		appHandlers.ShopHandler.RegisterAdminRoutes(admin.Group("/shops"))
		appHandlers.CategoryHandler.RegisterAdminRoutes(admin)
	}
}
