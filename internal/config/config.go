package config

import (
	"os"
	"strconv"
	"time"

	"sanam/internal/cache"
	"sanam/internal/database"
	"sanam/internal/messaging"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// Rate limiting for booking creation
	RateLimitRPS   int
	RateLimitBurst int

	// Month-availability cache TTL
	AvailabilityCacheTTL time.Duration

	Database database.Config
	Redis    cache.Config
	NATS     messaging.Config
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		AvailabilityCacheTTL: time.Duration(getEnvInt("AVAILABILITY_CACHE_TTL_SEC", 60)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "sanam"),
			Password:           getEnv("DB_PASSWORD", "sanam123"),
			DBName:             getEnv("DB_NAME", "sanam"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Redis: cache.Config{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			Enabled:  getEnv("REDIS_ENABLED", "true") == "true",
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "sanam"),
			ClientID:  getEnv("NATS_CLIENT_ID", "sanam-api"),
			Enabled:   getEnv("NATS_ENABLED", "false") == "true",
		},
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
