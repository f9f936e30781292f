// Package config loads application configuration from the environment.
// The Config value is constructed once in main and handed to every
// component that needs it; there is no process-wide lookup.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Supported AI provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
	ProviderOllama    = "ollama"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// AI categorization
	DefaultAIProvider string
	OpenAIAPIKey      string
	AnthropicAPIKey   string
	GoogleAPIKey      string
	OpenAIModel       string
	AnthropicModel    string
	GoogleModel       string
	OllamaModel       string
	OllamaHost        string

	// Bank sync
	BankEnvironment   string // "sandbox" or "live"
	WebhookSecret     string
	SyncDefaultWindow time.Duration

	// Background categorization sweep
	SweepInterval time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "coinconductor"),
		DBPassword: getEnv("DB_PASSWORD", "coinconductor"),
		DBName:     getEnv("DB_NAME", "coinconductor"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		DefaultAIProvider: getEnv("DEFAULT_AI_PROVIDER", ProviderOpenAI),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		AnthropicModel:    getEnv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		GoogleModel:       getEnv("GOOGLE_MODEL", "gemini-pro"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "llama3"),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),

		BankEnvironment:   getEnv("BANK_ENVIRONMENT", "sandbox"),
		WebhookSecret:     getEnv("BANK_WEBHOOK_SECRET", ""),
		SyncDefaultWindow: getDuration("SYNC_DEFAULT_WINDOW", 30*24*time.Hour),

		SweepInterval: getDuration("CATEGORIZE_SWEEP_INTERVAL", 12*time.Hour),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)

	return config, nil
}

// DSN returns the PostgreSQL connection string for GORM.
func (c *Config) DSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=" + c.DBSSLMode
}

// MigrateURL returns the postgres:// URL used by golang-migrate.
func (c *Config) MigrateURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" +
		c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// APIKeyFor returns the configured API key for a provider name.
func (c *Config) APIKeyFor(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGoogle:
		return c.GoogleAPIKey
	}
	return ""
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration environment variable, falling back on invalid input.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
