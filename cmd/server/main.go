package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/rollout-tracker/internal/config"
	"github.com/storeops/rollout-tracker/internal/database"
	"github.com/storeops/rollout-tracker/internal/handlers"
	"github.com/storeops/rollout-tracker/internal/logger"
	"github.com/storeops/rollout-tracker/internal/media"
	"github.com/storeops/rollout-tracker/internal/repository"
	"github.com/storeops/rollout-tracker/internal/services"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Debug); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}
	if err := database.EnsureDefaultAdmin(cfg); err != nil {
		logger.L().Fatal("default admin bootstrap failed", zap.Error(err))
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	access := services.NewAccess(projectRepo)
	authService := services.NewAuthService(userRepo, sessionRepo, cfg.SessionLifetime)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, taskRepo, access)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, access)
	commentService := services.NewCommentService(commentRepo, taskRepo, access)
	validator := media.NewValidator(media.Policy{
		MaxPhotoBytes: cfg.MaxPhotoBytes,
		MaxVideoBytes: cfg.MaxVideoBytes,
	})
	uploadService := services.NewUploadService(commentRepo, taskRepo, access, validator, cfg.UploadDir)
	dashboardService := services.NewDashboardService(projectRepo, taskRepo, userRepo)

	router := handlers.NewRouter(handlers.Handlers{
		AuthService: authService,
		Auth:        handlers.NewAuthHandler(authService),
		Users:       handlers.NewUserHandler(userService),
		Projects:    handlers.NewProjectHandler(projectService, taskService),
		Tasks:       handlers.NewTaskHandler(taskService, commentService),
		Uploads:     handlers.NewUploadHandler(uploadService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService),
	})

	logger.L().Info("server starting", zap.String("addr", ":8080"))
	if err := router.Run(":8080"); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}
