package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string

	SessionSecret string
	SessionTTL    time.Duration

	VisionEndpoint    string
	VisionKey         string
	VisionMaxAttempts int
	VisionPollDelay   time.Duration
	PDFTextFastPath   bool

	PayAPIBase       string
	PaySecretKey     string
	PayWebhookSecret string
	PayPriceID       string
	PaySuccessURL    string
	PayCancelURL     string
	EntitlementTTL   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		DatabaseURL:     dbURL,

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", "http://localhost:3000"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getEnvDuration("SESSION_TTL", 7*24*time.Hour),

		VisionEndpoint:    strings.TrimRight(getEnv("VISION_ENDPOINT", ""), "/"),
		VisionKey:         getEnv("VISION_KEY", ""),
		VisionMaxAttempts: getEnvInt("VISION_MAX_ATTEMPTS", 120),
		VisionPollDelay:   getEnvDuration("VISION_POLL_DELAY", time.Second),
		PDFTextFastPath:   getEnvBool("PDF_TEXT_FASTPATH", false),

		PayAPIBase:       strings.TrimRight(getEnv("PAY_API_BASE", "https://api.pay.example.com"), "/"),
		PaySecretKey:     getEnv("PAY_SECRET_KEY", ""),
		PayWebhookSecret: getEnv("PAY_WEBHOOK_SECRET", ""),
		PayPriceID:       getEnv("PAY_PRICE_ID", ""),
		PaySuccessURL:    getEnv("PAY_SUCCESS_URL", "http://localhost:3000/payment/success"),
		PayCancelURL:     getEnv("PAY_CANCEL_URL", "http://localhost:3000/payment/cancel"),
		EntitlementTTL:   getEnvDuration("ENTITLEMENT_TTL", 24*time.Hour),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q, using default", key, raw)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid duration %q, using default", key, raw)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config %s invalid bool %q, using default", key, raw)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
