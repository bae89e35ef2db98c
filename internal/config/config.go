package config

import (
	"fmt"
	"os"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL      string
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string

	// Redis
	RedisURL      string
	RedisPassword string

	// Server
	Port string

	// Authentication
	JWTSecret string

	// Faceit integration
	FaceitClientID     string
	FaceitClientSecret string
	FaceitRedirectURI  string
	FaceitAuthURL      string
	FaceitTokenURL     string
	FaceitAPIURL       string

	// File storage
	UploadDir string
}

func Load() *Config {
	return &Config{
		// Environment
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// Database
		DatabaseURL:      getEnvOrDefault("DATABASE_URL", ""),
		PostgresDB:       getEnvOrDefault("POSTGRES_DB", "wellboard"),
		PostgresUser:     getEnvOrDefault("POSTGRES_USER", "wellboard_user"),
		PostgresPassword: getEnvOrDefault("POSTGRES_PASSWORD", "wellboard_password"),
		PostgresHost:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvOrDefault("POSTGRES_PORT", "5432"),

		// Redis
		RedisURL:      getEnvOrDefault("REDIS_URL", "redis://localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// Server
		Port: getEnvOrDefault("PORT", "8080"),

		// Authentication
		JWTSecret: getEnvOrDefault("JWT_SECRET", "wellboard-secret-key-change-in-production"),

		// Faceit integration
		FaceitClientID:     getEnvOrDefault("FACEIT_CLIENT_ID", ""),
		FaceitClientSecret: getEnvOrDefault("FACEIT_CLIENT_SECRET", ""),
		FaceitRedirectURI:  getEnvOrDefault("FACEIT_REDIRECT_URI", "http://localhost:8080/api/faceit/oauth/callback"),
		FaceitAuthURL:      getEnvOrDefault("FACEIT_AUTH_URL", "https://accounts.faceit.com/authorize"),
		FaceitTokenURL:     getEnvOrDefault("FACEIT_TOKEN_URL", "https://api.faceit.com/auth/v1/oauth/token"),
		FaceitAPIURL:       getEnvOrDefault("FACEIT_API_URL", "https://open.faceit.com/data/v4"),

		// File storage
		UploadDir: getEnvOrDefault("UPLOAD_DIR", "./uploads"),
	}
}

func (c *Config) GetDatabaseURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
