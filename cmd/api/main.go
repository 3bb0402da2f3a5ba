package main

import (
	"log"

	"github.com/fanpay/fanpay-api/internal/config"
	"github.com/fanpay/fanpay-api/internal/logger"
	"github.com/fanpay/fanpay-api/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title           FanPay Checkout API
// @version         1.0
// @description     Off-chain authorization service for fan-token purchases

// @host      localhost:8000
// @BasePath  /api/v1

func main() {
	err := godotenv.Load()
	if err != nil {
		// A missing .env file is fine in environments where variables
		// are set directly.
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logger first
	logger.InitLogger(cfg.Stage)

	r := gin.Default()
	server.InitializeHandlers(cfg)
	server.InitializeRoutes(r)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
