package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/config"
	"github.com/assetflow/asset-movement/database"
	"github.com/assetflow/asset-movement/middlewares"
	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/router"
	"github.com/assetflow/asset-movement/services"
	"github.com/assetflow/asset-movement/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	if err := os.MkdirAll("public/uploads", 0o755); err != nil {
		utils.ErrorLogger.Fatalf("Failed to create upload directory: %v", err)
	}

	// Change-feed polling keeps websocket clients current across instances
	monitor := services.NewChangeMonitor(db)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	// Due-date and stale-approval reminders
	reminders := services.NewReminderMonitor(db, cfg.ReminderInterval())
	reminders.Start()
	defer reminders.Stop()

	// Expired token blacklist entries
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			utils.CleanupBlacklist()
		}
	}()

	r := router.SetupRouter(db)

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	if err := r.SetTrustedProxies([]string{"127.0.0.1", "localhost"}); err != nil {
		utils.ErrorLogger.Printf("Failed to set trusted proxies: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Department{},
		&models.Asset{},
		&models.AssetRequest{},
		&models.Approval{},
		&models.SecurityVerification{},
		&models.Notification{},
		&models.RequestComment{},
		&models.RequestAttachment{},
		&models.AssetMovement{},
		&models.DBChange{},
		&models.SchedulerLock{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Error setting up triggers: %v", err)
	}
}
