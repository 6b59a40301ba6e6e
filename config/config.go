package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI   string
	MongoDB    string
	ServerPort string
	JWTSecret  string
	LogFile    string
}

// Load reads configuration from the environment, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	// A missing .env just means the environment is set elsewhere.
	_ = godotenv.Load(".env")

	cfg := &Config{
		MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB_NAME", "freelance_tracker"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		LogFile:    os.Getenv("LOG_FILE"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set in the environment variables")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
