package config

import (
	"os"
	"strings"
)

const (
	DefaultPort        = "8080"
	DefaultDatabaseURL = "file:./data.db"
	DefaultOrigin      = "http://localhost:3000"
)

// Config holds the environment-provided settings read once at startup.
type Config struct {
	Port                  string
	DatabaseURL           string
	FrontendOrigins       []string
	FrontendOriginPattern string
	OpenAIAPIKey          string
}

// FromEnv builds the configuration from the process environment, applying
// defaults for anything unset. An empty OpenAIAPIKey disables the assisted
// extraction strategy.
func FromEnv() *Config {
	return &Config{
		Port:                  getEnv("PORT", DefaultPort),
		DatabaseURL:           getEnv("DATABASE_URL", DefaultDatabaseURL),
		FrontendOrigins:       splitOrigins(getEnv("FRONTEND_ORIGINS", DefaultOrigin)),
		FrontendOriginPattern: os.Getenv("FRONTEND_ORIGIN_PATTERN"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
