package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Webhook server configuration
	Host string
	Port string
	Mode string

	// Database configuration
	DatabaseURL string
	DBPath      string

	// Redis configuration
	RedisURL string

	// Afdian open API configuration
	AfdianUserID string
	AfdianToken  string

	// Payment configuration
	DefaultPrice float64
	DefaultReply string

	// Destinations notified on every new order
	NoticeDestinations []string

	// Admin API configuration
	AdminAPIKey string

	// Outbound notification configuration
	WebhookForwardSecret string
	BrevoAPIKey          string
	BrevoFromEmail       string
	BrevoFromName        string

	// Correlation configuration
	CorrelationTTLMinutes int

	// Sponsor query cache TTL in seconds
	SponsorCacheSeconds int
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Host:                  getEnv("HOST", "0.0.0.0"),
		Port:                  getEnv("PORT", "6500"),
		Mode:                  getEnv("GIN_MODE", "debug"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		DBPath:                getEnv("DB_PATH", "afdian-orders.db"),
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379/0"),
		AfdianUserID:          getEnv("AFDIAN_USER_ID", ""),
		AfdianToken:           getEnv("AFDIAN_TOKEN", ""),
		DefaultPrice:          getEnvFloat("DEFAULT_PRICE", 5.0),
		DefaultReply:          getEnv("DEFAULT_REPLY", "Thanks for your sponsorship!"),
		NoticeDestinations:    getEnvList("NOTICE_DESTINATIONS"),
		AdminAPIKey:           getEnv("ADMIN_API_KEY", ""),
		WebhookForwardSecret:  getEnv("WEBHOOK_FORWARD_SECRET", ""),
		BrevoAPIKey:           getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:        getEnv("BREVO_FROM_EMAIL", ""),
		BrevoFromName:         getEnv("BREVO_FROM_NAME", "Afdian Bridge"),
		CorrelationTTLMinutes: getEnvInt("CORRELATION_TTL_MINUTES", 1440),
		SponsorCacheSeconds:   getEnvInt("SPONSOR_CACHE_SECONDS", 60),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}
