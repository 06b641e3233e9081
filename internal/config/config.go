// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Auth modes selectable via AUTH_MODE.
const (
	AuthModeLocal    = "local"
	AuthModeKeycloak = "keycloak"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	// AuthMode selects how bearer tokens are issued and verified:
	// "local" signs tokens in-process, "keycloak" delegates to an identity server.
	AuthMode string

	// Local auth (self-issued tokens)
	JWTSecret string
	TokenTTL  time.Duration
	AuthUsers string // "user:secret,user:secret" pairs for the static store

	// Keycloak (delegated identity)
	KeycloakServerURL     string
	KeycloakRealm         string
	KeycloakClientID      string
	KeycloakClientSecret  string
	KeycloakAdminUser     string
	KeycloakAdminPassword string
	KeycloakTimeout       time.Duration

	// Object storage (S3-compatible: MinIO locally, any S3 provider in production)
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AuthMode: getEnv("AUTH_MODE", AuthModeLocal),

		JWTSecret: getEnv("JWT_SECRET", "change_me_in_production"),
		TokenTTL:  getDuration("TOKEN_TTL", time.Hour),
		AuthUsers: getEnv("AUTH_USERS", ""),

		KeycloakServerURL:     getEnv("KEYCLOAK_SERVER_URL", "http://localhost:8180"),
		KeycloakRealm:         getEnv("KEYCLOAK_REALM", "filegate"),
		KeycloakClientID:      getEnv("KEYCLOAK_CLIENT_ID", "filegate-api"),
		KeycloakClientSecret:  getEnv("KEYCLOAK_CLIENT_SECRET", ""),
		KeycloakAdminUser:     getEnv("KEYCLOAK_ADMIN_USER", ""),
		KeycloakAdminPassword: getEnv("KEYCLOAK_ADMIN_PASSWORD", ""),
		KeycloakTimeout:       getDuration("KEYCLOAK_TIMEOUT", 10*time.Second),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "files"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid duration for %s: %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
