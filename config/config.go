package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	BackendAPIURL  string
	RequestTimeout time.Duration
	CartDBPath     string
	RedisURL       string
	JWTSecret      string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		Port:           getEnv("PORT", "8090"),
		Env:            getEnv("ENV", "development"),
		BackendAPIURL:  getEnv("BACKEND_API_URL", "http://localhost:8080/api"),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 15*time.Second),
		CartDBPath:     getEnv("CART_DB_PATH", "storefront-carts.db"),
		RedisURL:       getEnv("REDIS_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
