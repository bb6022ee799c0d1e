// File: /main.go
package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"injoy-api/config"
	"injoy-api/database"
	"injoy-api/jobs"
	"injoy-api/middleware"
	"injoy-api/repositories"
	"injoy-api/routes"
	"injoy-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wizard service with its collaborators
	uploadService := services.NewUploadService(cfg.UploadServiceURL, cfg.UploadNamespace, log)
	tripRepository := repositories.NewTripRepository(db)
	wizard := services.NewWizardService(tripRepository, uploadService, log)

	// Evict abandoned drafts hourly
	cleanupJob := jobs.NewDraftCleanupJob(wizard, time.Hour, 24*time.Hour, log)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	// Create router
	router := gin.New()
	router.Use(routes.SetupCORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.Recovery())

	// Setup routes
	routes.SetupRoutes(router, db, cfg, wizard, log)

	// Start server
	log.Infof("Starting INJOY API server on port %s", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
