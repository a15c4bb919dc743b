package main

import (
	"fmt"
	"os"

	"github.com/unaytac-cmd/printnest-sub000/internal/data/db"
	"github.com/unaytac-cmd/printnest-sub000/internal/data/repos"
	"github.com/unaytac-cmd/printnest-sub000/internal/gangsheet"
	httpServer "github.com/unaytac-cmd/printnest-sub000/internal/http"
	httpH "github.com/unaytac-cmd/printnest-sub000/internal/http/handlers"
	httpMW "github.com/unaytac-cmd/printnest-sub000/internal/http/middleware"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/bus"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/envutil"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/gcp"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	designRepo := repos.NewDesignRepo(thePG, log)
	orderRepo := repos.NewOrderRepo(thePG, log)
	tenantSettingsRepo := repos.NewTenantSettingsRepo(thePG, log)
	gangsheetRepo := repos.NewGangsheetRepo(thePG, log)
	gangsheetRollRepo := repos.NewGangsheetRollRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}
	eventBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Warn("Event bus unavailable, continuing without it", "error", err)
		eventBus = nil
	}
	gangsheetService := gangsheet.NewService(
		log,
		gangsheetRepo,
		gangsheetRollRepo,
		tenantSettingsRepo,
		orderRepo,
		designRepo,
		bucketService,
		eventBus,
	)

	// Handlers
	log.Info("Setting up handlers from main...")
	gangsheetHandler := httpH.NewGangsheetHandler(gangsheetService)
	healthHandler := httpH.NewHealthHandler()

	// Middleware
	authMiddleware, err := httpMW.NewAuthMiddleware(log)
	if err != nil {
		log.Error("Could not init AuthMiddleware", "error", err)
		os.Exit(1)
	}

	// Router
	log.Info("Setting up router from main...")
	server := httpServer.NewServer(httpServer.RouterConfig{
		AuthMiddleware:   authMiddleware,
		GangsheetHandler: gangsheetHandler,
		HealthHandler:    healthHandler,
	})

	port := envutil.Str("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
