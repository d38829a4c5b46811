package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort    string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	JWTSecret     string
	TokenTTL      time.Duration
	UploadDir     string
	AllowedOrigin string
	StoreTimeout  time.Duration
}

func Load() *Config {
	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "ripple"),
		DBPassword:    getEnv("DB_PASSWORD", "ripple_dev_password"),
		DBName:        getEnv("DB_NAME", "ripple"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:      time.Duration(getInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		StoreTimeout:  time.Duration(getInt("STORE_TIMEOUT_SECONDS", 5)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func getInt(key string, fallback int) int {
	if val, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
