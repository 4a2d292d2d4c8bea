package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Sketch transform
	SketchStrategy string // "local", "openai", or "gemini"
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	GeminiAPIKey   string
	GeminiModel    string

	// Stripe
	StripeSecretKey     string
	StripeAPIBaseURL    string
	StripeWebhookSecret string

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string

	// Database
	DatabaseURL string

	// Previews
	PreviewFormat string // "jpeg" or "webp"

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	// .env is optional; real deployments use plain environment variables
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	cfg := &Config{
		SketchStrategy: getEnv("SKETCH_STRATEGY", "local"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_API_BASE_URL", "https://api.openai.com/v1/"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeAPIBaseURL:    getEnv("STRIPE_API_BASE_URL", "https://api.stripe.com/v1/"),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "book-images"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		PreviewFormat: getEnv("PREVIEW_FORMAT", "jpeg"),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.SketchStrategy {
	case "local":
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when SKETCH_STRATEGY=openai")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when SKETCH_STRATEGY=gemini")
		}
	default:
		return fmt.Errorf("SKETCH_STRATEGY must be one of local, openai, gemini (got %q)", c.SketchStrategy)
	}

	if c.PreviewFormat != "jpeg" && c.PreviewFormat != "webp" {
		return fmt.Errorf("PREVIEW_FORMAT must be jpeg or webp (got %q)", c.PreviewFormat)
	}

	if c.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if c.StripeWebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
