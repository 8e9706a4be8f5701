package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DBPath                string
	DBDriver              string
	RedisAddr             string
	RedisPrefix           string
	CacheTTL              time.Duration
	GRPCPort              int
	GRPCReflectionEnabled bool
	GRPCLoggingEnabled    bool
	GRPCMaxRecvMB         int
	InsightsConfigPath    string
}

// LoadFromEnv loads configuration from environment variables. An empty
// REDIS_ADDR runs without a response cache.
func LoadFromEnv() *Config {
	port, err := strconv.Atoi(getEnv("GRPC_PORT", "50051"))
	if err != nil {
		port = 50051
	}

	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		DBPath:                getEnv("DB_PATH", "./data/feedback.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPrefix:           getEnv("REDIS_PREFIX", "feedback"),
		CacheTTL:              getDuration("CACHE_TTL", 10*time.Minute),
		GRPCPort:              port,
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
		GRPCLoggingEnabled:    getBool("GRPC_LOGGING_ENABLED", true),
		GRPCMaxRecvMB:         getPositiveInt("GRPC_MAX_RECV_MB", 16),
		InsightsConfigPath:    os.Getenv("INSIGHTS_CONFIG"),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getPositiveInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
