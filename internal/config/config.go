package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	OpenAI   OpenAIConfig
	Data     DataConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret             string
	FrontendURL           string
	DefaultParlayLimit    int
	ScheduleLookaheadDays int
}

// OpenAIConfig holds completion-service settings
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// DataConfig holds paths to the batch-generated odds and picks artifacts
type DataConfig struct {
	OddsDir  string
	PicksDir string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "sharppicks"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5002"),
		},
		App: AppConfig{
			JWTSecret:             getEnv("JWT_SECRET", ""),
			FrontendURL:           getEnv("FRONTEND_URL", ""),
			DefaultParlayLimit:    getEnvInt("DEFAULT_PARLAY_LIMIT", 1),
			ScheduleLookaheadDays: getEnvInt("SCHEDULE_LOOKAHEAD_DAYS", 7),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Data: DataConfig{
			OddsDir:  getEnv("ODDS_DATA_DIR", "data/odds_data"),
			PicksDir: getEnv("PICKS_DATA_DIR", "data/processed_picks"),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with a fallback default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
