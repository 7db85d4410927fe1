package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/durumcu/durumcu-app/config"
	"github.com/durumcu/durumcu-app/database"
	"github.com/durumcu/durumcu-app/middlewares"
	"github.com/durumcu/durumcu-app/otp"
	"github.com/durumcu/durumcu-app/router"
	"github.com/durumcu/durumcu-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	utils.InitLogger()
}

func main() {
	cfg := config.LoadConfig()

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}
	if err := database.Seed(db, cfg); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed: %v", err)
	}

	codes := otp.NewStore()
	defer codes.Close()

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r := router.SetupRouter(db, codes, cfg, rateLimiter)

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
