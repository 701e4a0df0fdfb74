package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	JWTSecret          string
	StoragePath        string
	StorageBaseURL     string
	GeoIPDBPath        string
	AllowedOrigins     []string
	GeminiAPIKey       string
	GeminiBaseURL      string
	GeminiVisionModel  string
	ImageModel         string
	ImageFallbackModel string
	GenerationRetries  int
	GenerationTimeout  time.Duration
	RetryBackoff       time.Duration
	BillingAPIKey      string
	BillingBaseURL     string
	BillingSecret      string
	AppBaseURL         string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiVisionModel:  getEnv("GEMINI_VISION_MODEL", "gemini-2.5-flash"),
		ImageModel:         getEnv("IMAGE_MODEL", "gemini-3-pro-image-preview"),
		ImageFallbackModel: getEnv("IMAGE_FALLBACK_MODEL", "gemini-2.5-flash-image"),
		GenerationRetries:  getEnvInt("GENERATION_RETRIES", 3),
		GenerationTimeout:  time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 180)),
		RetryBackoff:       time.Second * time.Duration(getEnvInt("GENERATION_RETRY_BACKOFF_SECONDS", 30)),
		BillingAPIKey:      os.Getenv("BILLING_API_KEY"),
		BillingBaseURL:     getEnv("BILLING_BASE_URL", "https://api.stripe.com/v1"),
		BillingSecret:      os.Getenv("BILLING_WEBHOOK_SECRET"),
		AppBaseURL:         getEnv("APP_BASE_URL", "http://localhost:3000"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
