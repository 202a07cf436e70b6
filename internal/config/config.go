package config

import (
	"os"
	"strconv"
	"time"

	"github.com/storeops/rollout-tracker/internal/constants"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	GinMode string
	Debug   bool

	SessionLifetime time.Duration

	UploadDir     string
	MaxPhotoBytes int64
	MaxVideoBytes int64

	DefaultAdminEmail    string
	DefaultAdminPassword string
}

func Load() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "rollout"),
		DBPassword: getEnv("DB_PASSWORD", "rollout"),
		DBName:     getEnv("DB_NAME", "rollout_tracker"),

		GinMode: getEnv("GIN_MODE", "debug"),
		Debug:   getEnvBool("APP_DEBUG", false),

		SessionLifetime: getEnvDuration("SESSION_LIFETIME", constants.DefaultSessionLifetime),

		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		MaxPhotoBytes: getEnvInt64("MAX_PHOTO_BYTES", constants.DefaultMaxPhotoBytes),
		MaxVideoBytes: getEnvInt64("MAX_VIDEO_BYTES", constants.DefaultMaxVideoBytes),

		DefaultAdminEmail:    getEnv("DEFAULT_ADMIN_EMAIL", "admin@example.com"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "adminpass"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
