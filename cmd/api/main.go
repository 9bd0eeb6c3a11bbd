package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/config"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/database"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/handler"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/middleware"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/permission"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/router"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/service"
	cloud "github.com/hothanhtai16998/PhotoCloud-sub000/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Image{},
		&models.Favorite{},
		&models.AdminRole{},
		&models.UserActivity{},
		&models.SystemLog{},
		&models.Setting{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	storage, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	location, err := time.LoadLocation(cfg.AnalyticsTimezone)
	if err != nil {
		log.Fatalf("invalid analytics timezone: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewAdminRoleRepository(db)
	imageRepo := repository.NewImageRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	activityRepo := repository.NewUserActivityRepository(db)
	logRepo := repository.NewSystemLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	permissionCache := permission.NewCache(redisClient, cfg.PermissionCacheTTL, logger)

	logService := service.NewSystemLogService(logRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, natsConn, cfg.AppName, logger)
	roleService := service.NewAdminRoleService(roleRepo, userRepo, permissionCache, logService, validate, logger)
	userService := service.NewAdminUserService(userRepo, roleRepo, imageRepo, storage, notificationService, logService, validate, logger)
	moderationService := service.NewModerationService(imageRepo, logService, validate, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, redisClient, cfg.AnalyticsCacheTTL, location, logger)
	settingsService := service.NewSettingsService(settingsRepo, logService, validate, logger)
	activityService := service.NewActivityService(activityRepo, imageRepo, location, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, imageRepo, logger)
	uploadService := service.NewUploadService(storage, imageRepo, userRepo, activityService, validate, cfg.MaxUploadMB, logger)

	gate := middleware.NewPermissionGate(permissionCache, roleRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		AdminUserHandler:    handler.NewAdminUserHandler(userService, logger),
		AdminRoleHandler:    handler.NewAdminRoleHandler(roleService, logger),
		ModerationHandler:   handler.NewModerationHandler(moderationService, logger),
		AnalyticsHandler:    handler.NewAnalyticsHandler(analyticsService, logger),
		SettingsHandler:     handler.NewSettingsHandler(settingsService, logger),
		SystemLogHandler:    handler.NewSystemLogHandler(logService, logger),
		UploadHandler:       handler.NewUploadHandler(uploadService, logger),
		ImageHandler:        handler.NewImageHandler(favoriteService, activityService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		PermissionGate:      gate,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
