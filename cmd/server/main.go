package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"afdian-bridge/internal/afdian"
	"afdian-bridge/internal/api"
	"afdian-bridge/internal/config"
	"afdian-bridge/internal/database"
	"afdian-bridge/internal/services"
	"afdian-bridge/pkg/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatal("Failed to initialize config:", err)
	}
	cfg := config.AppConfig

	// Initialize logging
	logging.InitLogging()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.CloseDatabase()

	// Set Gin mode
	gin.SetMode(cfg.Mode)

	// Platform API client
	client := afdian.NewClient(cfg.AfdianUserID, cfg.AfdianToken)
	defer client.Close()

	// Correlation registry with TTL eviction
	ttl := time.Duration(cfg.CorrelationTTLMinutes) * time.Minute
	registry := services.NewCorrelationRegistry(ttl)
	defer registry.Close()

	// Delivery backends: webhook destinations always, email when configured
	router := &services.DestinationRouter{
		Webhook: services.NewWebhookSender(cfg.WebhookForwardSecret),
	}
	if cfg.BrevoAPIKey != "" {
		router.Email = services.NewEmailSender(cfg.BrevoAPIKey, cfg.BrevoFromEmail, cfg.BrevoFromName)
	}

	// Dispatcher seeded with the configured notification destinations
	dispatcher := services.NewDispatcher(registry, router, cfg.DefaultReply)
	for _, dest := range cfg.NoticeDestinations {
		dispatcher.Subscribe(dest)
	}

	// Webhook server
	store := database.NewOrderStore(database.GetDB())
	server := api.NewServer(cfg, store, client, registry, dispatcher)
	server.RegisterOrderCallback(dispatcher.HandleOrder)

	if err := server.Start(); err != nil {
		log.Fatal("Failed to start webhook server:", err)
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Infof("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logging.Errorf("Shutdown error: %v", err)
	}
}
