package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webvision/quoting-api/internal/api/handlers"
	"github.com/webvision/quoting-api/internal/config"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	initSigning := handlers.HandleInitSigningSession(cfg, logger)

	// Historical mount, kept for clients of the original app
	router.POST("/signing-sessions/init", initSigning)

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.POST("/signing-sessions/init", initSigning)
		v1.POST("/quotes/render", handlers.HandleRenderQuote(logger))
		v1.POST("/quotes/validate", handlers.HandleValidateQuote(logger))
		v1.POST("/contracts/render", handlers.HandleRenderContract(logger))
	}

	return router
}

// loggingMiddleware logs HTTP requests with a per-request id
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-Id", requestID)

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
