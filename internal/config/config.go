package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	YouTubeAPIKey string
	OutputDir     string
	DataDir       string
	RedisURL      string
	LogLevel      string
	Environment   string
	CORSOrigins   string
}

func Load() *Config {
	// Local development reads a .env file; deployments set real env vars.
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "5000"),
		YouTubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),
		OutputDir:     getEnv("OUTPUT_DIR", defaultOutputDir()),
		DataDir:       getEnv("DATA_DIR", "data"),
		RedisURL:      getEnv("REDIS_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
	}
}

// KeyFromEnv reports whether the YouTube API key came from the environment
// rather than being set at runtime through the API.
func KeyFromEnv() bool {
	return os.Getenv("YOUTUBE_API_KEY") != ""
}

// defaultOutputDir prefers the user's Downloads folder, falling back to a
// local ./output directory when it does not exist.
func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err == nil {
		downloads := filepath.Join(home, "Downloads")
		if info, err := os.Stat(downloads); err == nil && info.IsDir() {
			return downloads
		}
	}
	return "output"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
