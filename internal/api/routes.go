package api

import (
	"afdian-bridge/internal/middleware"

	"github.com/gin-gonic/gin"
)

// setupRoutes sets up all routes
func (s *Server) setupRoutes() {
	// Platform-facing webhook surface
	s.engine.POST("/", s.receiveWebhook)
	s.engine.GET("/orders", s.listOrders)

	// Admin surface (operator commands over HTTP)
	api := s.engine.Group("/api")
	api.Use(middleware.APIKeyAuth(s.cfg.AdminAPIKey))
	{
		api.GET("/orders", s.adminListOrders)
		api.GET("/orders/:id", s.adminGetOrder)
		api.GET("/ping", s.adminPing)
		api.GET("/query-order", s.adminQueryOrder)
		api.GET("/sponsors", s.adminQuerySponsors)
		api.POST("/payment-url", s.adminCreatePaymentURL)
		api.POST("/subscribe", s.adminSubscribe)
	}

	// Health check
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "afdian-bridge",
		})
	})
}
