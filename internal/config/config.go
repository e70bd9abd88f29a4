package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the front-end API server settings
type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	RabbitURL       string // empty disables event publishing to RabbitMQ
	JWTSecret       string
	LogLevel        string
	SessionTTL      time.Duration
	HandoffTTL      time.Duration
	SliderThreshold int
	CORS            CORSConfig
	Backend         BackendConfig
}

// BackendConfig points at the external analysis backend
type BackendConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int // attempts per request, 1 means no retry
}

// CORSConfig lists the CORS response headers
type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// LoadDotEnv loads a .env file when one exists. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load reads the server configuration from the environment
func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("PORT", "3000"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "heartquiz"),
		RedisAddr:       strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),
		RabbitURL:       os.Getenv("RABBITMQ_URL"),
		JWTSecret:       getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		HandoffTTL:      time.Duration(getEnvInt("HANDOFF_TTL_HOURS", 24)) * time.Hour,
		SliderThreshold: getEnvInt("QUIZ_SLIDER_THRESHOLD", 5),
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type, Authorization"),
		},
		Backend: LoadBackend(),
	}
}

// LoadBackend reads the analysis backend settings from the environment
func LoadBackend() BackendConfig {
	return BackendConfig{
		BaseURL:    strings.TrimRight(getEnv("ANALYSIS_BACKEND_URL", "http://localhost:8000"), "/"),
		Timeout:    time.Duration(getEnvInt("BACKEND_TIMEOUT_MS", 30000)) * time.Millisecond,
		MaxRetries: getEnvInt("BACKEND_MAX_RETRIES", 1),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
