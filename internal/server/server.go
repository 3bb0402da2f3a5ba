package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/fanpay/fanpay-api/internal/config"
	"github.com/fanpay/fanpay-api/internal/handlers"
	"github.com/fanpay/fanpay-api/internal/logger"
	"github.com/fanpay/fanpay-api/internal/services"
	"github.com/fanpay/fanpay-api/internal/signing"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler Definitions
var (
	nonceHandler    *handlers.NonceHandler
	checkoutHandler *handlers.CheckoutHandler
)

// InitializeHandlers wires the services and handlers from configuration.
func InitializeHandlers(cfg *config.Config) {
	serviceSigner, err := signing.NewLocalSigner(cfg.ServiceSigningKey)
	if err != nil {
		logger.Fatal("Unable to load service signing key", zap.Error(err))
	}

	nonceReader, err := services.NewLedgerNonceReader(cfg.LedgerRPCURL, cfg.ExecutorAddress)
	if err != nil {
		logger.Fatal("Unable to connect to the ledger RPC", zap.Error(err))
	}

	commonServices := handlers.NewCommonServices(
		services.NewNonceService(nonceReader),
		services.NewOrderAuthorizationService(serviceSigner),
		services.NewBundleService(),
		cfg.ChainContext(),
	)

	nonceHandler = handlers.NewNonceHandler(commonServices)
	checkoutHandler = handlers.NewCheckoutHandler(commonServices)
}

// InitializeRoutes registers middleware and the API routes.
func InitializeRoutes(router *gin.Engine) {
	router.Use(configureCORS())
	router.Use(handlers.RequestID())
	router.Use(handlers.LogRequest())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/nonce", nonceHandler.GetNonce)

		orders := v1.Group("/orders")
		{
			orders.POST("/authorize", checkoutHandler.AuthorizeOrder)
			orders.POST("/assemble", checkoutHandler.AssembleBundle)
		}
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		// Default to localhost if not set
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		// Split and trim the origins
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}

	return cors.New(corsConfig)
}
