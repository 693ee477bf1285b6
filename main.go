package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"practice-booking-server/internal/config"
	"practice-booking-server/internal/cron"
	"practice-booking-server/internal/logger"
	"practice-booking-server/internal/mailer"
	"practice-booking-server/internal/models"
	"practice-booking-server/internal/routes"
	"practice-booking-server/internal/scheduling"
	"practice-booking-server/internal/store"
)

func main() {
	// Load environment variables; a missing .env is fine in production.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger.Init(cfg.Environment)
	zlog := logger.Get()
	defer zlog.Sync()

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		zlog.Fatal("Error connecting to database", zap.Error(err))
	}

	// Wire the scheduling core to its collaborators.
	mail := mailer.New(cfg.Mailer, zlog)
	scheduler := scheduling.New(store.New(db), mail, cfg.Scheduling, cfg.AppURL, zlog)

	// Background reminder sweep
	sweeper := cron.NewReminderSweeper(scheduler, zlog).Start()
	defer sweeper.Stop()

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, db, scheduler, cfg)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	zlog.Info("Server starting", zap.String("port", cfg.Port))
	if err := router.Run(serverAddr); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}
