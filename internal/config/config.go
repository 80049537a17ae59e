package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	NewsAPI  NewsAPIConfig
	LLM      LLMConfig
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
	JWTSecret     string
	InitialPoints string
}

// NewsAPIConfig holds NewsAPI.org settings
type NewsAPIConfig struct {
	APIKey string
}

// LLMConfig holds settings for the completion endpoint used to turn
// headlines into poll questions
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
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
			DBName:   getEnv("DB_NAME", "paperboy"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5000"),
		},
		App: AppConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			InitialPoints: getEnv("INITIAL_POINTS", "1000"),
		},
		NewsAPI: NewsAPIConfig{
			APIKey: getEnv("NEWS_API_KEY", ""),
		},
		LLM: LLMConfig{
			BaseURL: getEnv("LLM_BASE_URL", "https://router.huggingface.co/v1"),
			APIKey:  getEnv("HF_TOKEN", ""),
			Model:   getEnv("LLM_MODEL", "deepseek-ai/DeepSeek-V3.2-Exp:novita"),
		},
	}

	// The token-signing secret is required startup configuration with
	// no hardcoded fallback.
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
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
