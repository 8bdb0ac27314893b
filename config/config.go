package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/learllr/osteolog/models"
)

// Config holds the runtime settings read from the environment
type Config struct {
	Port             string
	DBDriver         string
	DatabaseURL      string
	JWTSecret        string
	TokenTTL         time.Duration
	FrontendURL      string
	Environment      string
	LogRetentionDays int
	AuthRateLimit    int
}

// Load reads .env (if present) then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	return Config{
		Port:             getEnv("PORT", "5000"),
		DBDriver:         getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         time.Hour,
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:5173"),
		Environment:      getEnv("ENVIRONMENT", models.EnvironmentDevelopment),
		LogRetentionDays: getEnvInt("LOG_RETENTION_DAYS", 30),
		AuthRateLimit:    getEnvInt("AUTH_RATE_LIMIT", 20),
	}
}

// Production reports whether cookies must be marked Secure.
func (c Config) Production() bool {
	return c.Environment == models.EnvironmentProduction
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}
