package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all process configuration, loaded once at startup and immutable thereafter.
type Config struct {
	ServerPort string

	// LLM vendor
	LLMEndpoint    string
	LLMAPIVersion  string
	LLMModel       string
	LLMBearerToken string
	LLMTimeoutSecs int

	// Document store
	StoreDBPath    string
	StoreDatabase  string
	StoreContainer string
	StoreKey       string

	// Thresholds
	AutoApprovalThreshold float64
	HighRiskThreshold     float64

	// Conformance
	StrictPremiumConformance bool

	// Infra
	RedisURL string
	NatsURL  string

	EnableWebSocket bool

	RateLimitGlobalMax int
	RateLimitAgentMax  int
	RateLimitReportMax int
}

var AppConfig *Config

// Load populates Config from the environment, falling back to a local .env file, with defaults
// matching the donor's getEnv/getEnvBool/getEnvInt helper pattern.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, using environment variables")
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "3000"),

		LLMEndpoint:    getEnv("LLM_ENDPOINT", "http://127.0.0.1:8001/v1/chat/completions"),
		LLMAPIVersion:  getEnv("LLM_API_VERSION", "2024-08-01"),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-underwriting"),
		LLMBearerToken: getEnv("LLM_BEARER_TOKEN", ""),
		LLMTimeoutSecs: getEnvInt("LLM_TIMEOUT_SECONDS", 240),

		StoreDBPath:    getEnv("STORE_DB_PATH", "underwriting.db"),
		StoreDatabase:  getEnv("STORE_DATABASE", "underwriting"),
		StoreContainer: getEnv("STORE_CONTAINER", "documents"),
		StoreKey:       getEnv("STORE_KEY", ""),

		AutoApprovalThreshold: getEnvFloat("AUTO_APPROVAL_THRESHOLD", 0.7),
		HighRiskThreshold:     getEnvFloat("HIGH_RISK_THRESHOLD", 0.3),

		StrictPremiumConformance: getEnvBool("STRICT_PREMIUM_CONFORMANCE", true),

		RedisURL: getEnv("REDIS_URL", "localhost:6379"),
		NatsURL:  getEnv("NATS_URL", "nats://localhost:4222"),

		EnableWebSocket: getEnvBool("ENABLE_WEBSOCKET", true),

		RateLimitGlobalMax: getEnvInt("RATE_LIMIT_GLOBAL_MAX", 100),
		RateLimitAgentMax:  getEnvInt("RATE_LIMIT_AGENT_MAX", 20),
		RateLimitReportMax: getEnvInt("RATE_LIMIT_REPORT_MAX", 60),
	}

	AppConfig = cfg

	log.Printf("⚙️ Config loaded: Port=%s, LLM=%s, Store=%s/%s",
		cfg.ServerPort, cfg.LLMEndpoint, cfg.StoreDatabase, cfg.StoreContainer)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
