// main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/endpoint"
	"github.com/torarnehave1/slowyou.io/middleware"
	"github.com/torarnehave1/slowyou.io/model"
	"github.com/torarnehave1/slowyou.io/util"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := db.AutoMigrate(&model.VerificationToken{}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	util.SetAuditLoggerDB(db)

	// Rate limiting degrades gracefully without Redis.
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	}

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimiter(middleware.RateLimitConfig{}))
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.RequireJSONContentType())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	router.GET("/health", endpoint.Health)
	router.GET("/verify-email", endpoint.VerifyEmail)
	router.POST("/login/magic/send", endpoint.MagicLinkSend)
	router.GET("/login/magic/verify", endpoint.MagicLinkVerify)
	router.POST("/send-email-custom-credentials", endpoint.SendEmailCustomCredentials)

	authorized := router.Group("/", middleware.APITokenAuth())
	authorized.GET("/available-senders", endpoint.AvailableSenders)
	authorized.POST("/reg-user-vegvisr", endpoint.RegisterUser)
	authorized.POST("/resend-verification-email", endpoint.ResendVerificationEmail)
	authorized.POST("/onboarding", endpoint.Onboarding)
	authorized.POST("/onboarding-review", endpoint.OnboardingReview)
	authorized.POST("/send-vegvisr-email", endpoint.SendCustomEmail)

	port := cfg.AppPort
	if port == 0 {
		port = 3001
	}
	address := fmt.Sprintf(":%d", port)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
