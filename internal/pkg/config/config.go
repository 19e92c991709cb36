package config

import (
	"fmt"
	"os"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type Config struct {
	Repositories RepositoriesConfig
	JWT          JWTConfig
	Gemini       GeminiConfig
	ServerPort   string
	Environment  string
}

// Load reads configuration from the environment. The store password, the
// token-signing secret and the Gemini API key are required; missing any of
// them is a fatal startup condition.
func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "travel_planner"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		JWT: JWTConfig{
			SecretKey:      getEnvOrDefault("JWT_SECRET_KEY", ""),
			AccessTokenTTL: 7 * 24 * time.Hour,
			Issuer:         getEnvOrDefault("JWT_ISSUER", "travel-planner"),
			Audience:       getEnvOrDefault("JWT_AUDIENCE", "travel-planner-api"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnvOrDefault("GEMINI_API_KEY", ""),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
	}

	if ttl := os.Getenv("JWT_ACCESS_TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
		}
		cfg.JWT.AccessTokenTTL = d
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
