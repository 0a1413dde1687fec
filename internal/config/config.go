package config

import (
	"os"

	"github.com/joho/godotenv"
)

// ServiceConfig is a structure containing all loaded variables from environment.
type ServiceConfig struct {
	Addr      string // HTTP listen address
	DBPath    string // sqlite database file
	JWTSecret string // HMAC secret for bearer tokens
}

// config stores once parsed env variables.
var config *ServiceConfig

// LoadConfig parses configuration from the environment, reading a .env file
// first when one exists. Subsequent calls return the same parsed config.
func LoadConfig() *ServiceConfig {
	if config != nil {
		return config
	}

	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	config = &ServiceConfig{
		Addr:      getEnv("QUIZ_ADDR", ":8080"),
		DBPath:    getEnv("QUIZ_DB_PATH", "course-quiz.db"),
		JWTSecret: getEnv("QUIZ_JWT_SECRET", ""),
	}
	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
