package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port          int
	JWTSecret     string
	DatabaseURL   string
	EncryptionKey string
	CORSOrigins   []string
	AdminEmail    string
	AdminPassword string

	// LLM aggregation API (OpenRouter-compatible).
	LLMAPIKey     string
	LLMBaseURL    string
	LLMChatModel  string
	LLMImageModel string

	// Site attribution sent to the LLM aggregator on every request.
	SiteURL  string
	SiteName string

	// Hosted checkout provider.
	CheckoutBaseURL       string
	CheckoutAPIKey        string
	CheckoutWebhookSecret string

	// Credits granted to free accounts each monthly period.
	FreeMonthlyCredits int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	port, _ := strconv.Atoi(getEnv("PORT", "4001"))

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	encKey := getEnv("ENCRYPTION_KEY", "")
	if encKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required (must be exactly 32 bytes)")
	}
	if len(encKey) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes, got %d", len(encKey))
	}

	llmKey := getEnv("LLM_API_KEY", "")
	if llmKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}

	origins := strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,https://ramadanhub.app"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	freeCredits, _ := strconv.Atoi(getEnv("FREE_MONTHLY_CREDITS", "10"))

	return &Config{
		Port:          port,
		JWTSecret:     jwtSecret,
		DatabaseURL:   dbURL,
		EncryptionKey: encKey,
		CORSOrigins:   origins,
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@ramadanhub.app"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		LLMAPIKey:     llmKey,
		LLMBaseURL:    getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMChatModel:  getEnv("LLM_CHAT_MODEL", "openai/gpt-4o-mini"),
		LLMImageModel: getEnv("LLM_IMAGE_MODEL", "openai/dall-e-3"),

		SiteURL:  getEnv("SITE_URL", "https://ramadanhub.app"),
		SiteName: getEnv("SITE_NAME", "RamadanHub AI"),

		CheckoutBaseURL:       getEnv("CHECKOUT_BASE_URL", ""),
		CheckoutAPIKey:        getEnv("CHECKOUT_API_KEY", ""),
		CheckoutWebhookSecret: getEnv("CHECKOUT_WEBHOOK_SECRET", ""),

		FreeMonthlyCredits: freeCredits,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
