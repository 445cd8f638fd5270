package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Logging configuration
	LogLevel string

	// AWS configuration
	AWSRegion string

	// DynamoDB configuration
	ProductionsTableName string
	BrandAssetsTableName string

	// Gemini configuration (optional; empty key selects the rule-based classifier)
	GeminiAPIKey string
	GeminiModel  string

	// Provider catalog (optional; empty path selects the built-in catalog)
	ProviderCatalogPath string

	// Auth configuration
	JWTSecret string

	// Pipeline runtime configuration
	WorkerCount int
	QueueSize   int
}

// New creates a new Config instance by loading environment variables
// from .env file (if present) and OS environment.
// OS environment variables take precedence over .env file values.
// Panics if required configuration values are missing or invalid.
func New() *Config {
	// Load .env file from the working directory (silently ignore if not found)
	envPath := filepath.Join(".", ".env")
	_ = godotenv.Load(envPath)

	cfg := &Config{
		Port:     getEnvOrDefault("PORT", "3001"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),

		AWSRegion: getEnvOrDefault("AWS_REGION", "us-east-1"),

		ProductionsTableName: getEnvOrDefault("PRODUCTIONS_TABLE", "Productions"),
		BrandAssetsTableName: getEnvOrDefault("BRAND_ASSETS_TABLE", "BrandAssets"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		ProviderCatalogPath: os.Getenv("PROVIDER_CATALOG_PATH"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		WorkerCount: getEnvIntOrDefault("WORKER_COUNT", 4),
		QueueSize:   getEnvIntOrDefault("QUEUE_SIZE", 100),
	}

	cfg.validate()

	return cfg
}

// validate checks that all required configuration values are present and valid
func (c *Config) validate() {
	var missing []string

	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		panic(fmt.Sprintf("Missing required configuration values: %v", missing))
	}

	// The signing key should have enough entropy for HMAC-SHA256
	if len(c.JWTSecret) < 32 {
		panic(fmt.Sprintf("JWT_SECRET must be at least 32 characters (got %d)", len(c.JWTSecret)))
	}

	if c.WorkerCount < 1 {
		panic(fmt.Sprintf("WORKER_COUNT must be at least 1 (got %d)", c.WorkerCount))
	}
	if c.QueueSize < 1 {
		panic(fmt.Sprintf("QUEUE_SIZE must be at least 1 (got %d)", c.QueueSize))
	}
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns an integer environment variable or a default value
func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("%s must be an integer (got '%s')", key, value))
	}
	return n
}
