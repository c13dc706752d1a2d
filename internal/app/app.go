package app

import (
	"context"
	"fmt"
	"time"

	"shophub_backend/database"
	"shophub_backend/internal/auth"
	"shophub_backend/internal/config"
	"shophub_backend/internal/email"
	"shophub_backend/internal/handlers"
	"shophub_backend/internal/imageprocessor"
	"shophub_backend/internal/logger"
	"shophub_backend/internal/middleware"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/routes"
	"shophub_backend/internal/services"
	"shophub_backend/internal/sms"
	"shophub_backend/internal/storage"
	"shophub_backend/internal/validator"
	"shophub_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}
	logger.Info("Migrations applied")

	ginRouter, serviceContainer, otpWorker := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := serviceContainer.RoleService.SeedRoles(ctx); err != nil {
		logger.Fatal("Failed to seed roles", "error", err)
	}
	otpWorker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает весь граф зависимостей и возвращает готовый роутер
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer, *workers.OtpWorker) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	tokens := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		time.Duration(cfg.JWT.AccessTTLMin)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLHrs)*time.Hour,
	)

	serviceContainer, otpWorker := initializeServices(cfg, gormDB, storageInstance, tokens)
	appHandlers := initializeHandlers(serviceContainer, tokens)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, tokens, serviceContainer.RoleService)

	return ginRouter, serviceContainer, otpWorker
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage, tokens *auth.TokenManager) (*services.ServiceContainer, *workers.OtpWorker) {
	txManager := repositories.NewTxManager(gormDB)

	userRepo := repositories.NewUserRepository(gormDB)
	profileRepo := repositories.NewProfileRepository(gormDB)
	otpRepo := repositories.NewOtpRepository(gormDB)
	shopRepo := repositories.NewShopRepository(gormDB)
	shopFileRepo := repositories.NewShopFileRepository(gormDB)
	roleRepo := repositories.NewRoleRepository(gormDB)
	blogRepo := repositories.NewBlogRepository(gormDB)
	categoryRepo := repositories.NewCategoryRepository(gormDB)

	storageTimeout := time.Duration(cfg.Storage.TimeoutSec) * time.Second
	otpTTL := time.Duration(cfg.Otp.TTLSeconds) * time.Second
	emailSender := email.NewSender(cfg)
	smsProvider := sms.NewLogProvider()
	filePolicy := services.NewFilePolicy()
	imageProcessor := imageprocessor.New(85)

	container := &services.ServiceContainer{
		AuthService:     services.NewAuthService(userRepo, otpRepo, tokens, smsProvider, txManager, otpTTL),
		UserService:     services.NewUserService(userRepo, storageInstance, txManager, storageTimeout),
		ProfileService:  services.NewProfileService(profileRepo, userRepo, storageInstance, imageProcessor, storageTimeout),
		ShopService:     services.NewShopService(shopRepo, roleRepo, txManager, emailSender),
		ShopFileService: services.NewShopFileService(shopRepo, shopFileRepo, storageInstance, filePolicy, txManager, storageTimeout),
		RoleService:     services.NewRoleService(roleRepo, txManager),
		BlogService:     services.NewBlogService(blogRepo, categoryRepo, storageInstance, imageProcessor, txManager, storageTimeout),
		CategoryService: services.NewCategoryService(categoryRepo, storageInstance, imageProcessor, storageTimeout),
	}
	otpWorker := workers.NewOtpWorker(otpRepo, 10*time.Minute)
	return container, otpWorker
}

func initializeHandlers(sc *services.ServiceContainer, tokens *auth.TokenManager) *handlers.AppHandlers {
	v := validator.New()

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(v, sc.AuthService, tokens),
		UserHandler:     handlers.NewUserHandler(v, sc.UserService),
		ProfileHandler:  handlers.NewProfileHandler(v, sc.ProfileService),
		ShopHandler:     handlers.NewShopHandler(v, sc.ShopService, sc.RoleService),
		ShopFileHandler: handlers.NewShopFileHandler(v, sc.ShopFileService, sc.RoleService),
		BlogHandler:     handlers.NewBlogHandler(v, sc.BlogService, sc.RoleService),
		CategoryHandler: handlers.NewCategoryHandler(v, sc.CategoryService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	return ginRouter
}
