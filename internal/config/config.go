// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
	UploadDir      string
}

// DatabaseConfig holds database configuration settings
type DatabaseConfig struct {
	Type       string // "postgres" or "sqlite"
	URI        string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// AuthConfig holds token and cookie settings
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CookieSecure    bool
	AdminEmail      string
	AdminPassword   string
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Auth           *AuthConfig
	AllowedOrigins []string
	Debug          bool
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
		UploadDir:      "uploads",
	}
}

// DefaultDatabaseConfig provides default database settings
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type:       "postgres",
		Port:       5432,
		SSLMode:    "require",
		SQLitePath: "blog.db",
	}
}

// DefaultAuthConfig provides default token lifetimes
func DefaultAuthConfig() *AuthConfig {
	return &AuthConfig{
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		CookieSecure:    true,
	}
}

// devJWTSecret is only accepted when DEBUG=true.
const devJWTSecret = "blog-dev-secret-do-not-use-in-production"

var envLocations = []string{
	".env",       // Current directory
	"../../.env", // Project root when running from cmd/server
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			break
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment without reading .env files.
func FromEnv() (*Config, error) {
	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
		}
		serverConfig.Port = port
	}
	serverConfig.Host = getEnvOrDefault("HOST", serverConfig.Host)
	serverConfig.UploadDir = getEnvOrDefault("UPLOAD_DIR", serverConfig.UploadDir)
	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	config := &Config{
		Server:         serverConfig,
		AllowedOrigins: []string{"http://localhost:5173"},
		Debug:          os.Getenv("DEBUG") == "true",
	}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}
	config.Database = dbConfig

	authConfig, err := loadAuthConfig(config.Debug)
	if err != nil {
		return nil, err
	}
	config.Auth = authConfig

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				config.AllowedOrigins = append(config.AllowedOrigins, origin)
			}
		}
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	dbConfig := DefaultDatabaseConfig()
	dbConfig.Type = getEnvOrDefault("DB_TYPE", dbConfig.Type)

	switch dbConfig.Type {
	case "sqlite":
		dbConfig.SQLitePath = getEnvOrDefault("SQLITE_PATH", dbConfig.SQLitePath)
		dbConfig.URI = SQLiteDSN(dbConfig.SQLitePath)
	case "postgres":
		// Prioritize DATABASE_URL if provided
		if uri := os.Getenv("DATABASE_URL"); uri != "" {
			dbConfig.URI = uri
			dbConfig.SSLMode = getSSLModeFromURI(uri)
			return dbConfig, nil
		}

		dbConfig.Host = getEnvOrDefault("DB_HOST", "localhost")
		if portStr := os.Getenv("DB_PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("invalid DB_PORT %q: %w", portStr, err)
			}
			dbConfig.Port = port
		}

		dbConfig.User = os.Getenv("DB_USER")
		if dbConfig.User == "" {
			return nil, fmt.Errorf("DB_USER environment variable is required when DB_TYPE is postgres and DATABASE_URL is not set")
		}
		dbConfig.Password = os.Getenv("DB_PASSWORD")
		if dbConfig.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD environment variable is required when DB_TYPE is postgres and DATABASE_URL is not set")
		}
		dbConfig.Name = getEnvOrDefault("DB_NAME", "postgres")
		dbConfig.SSLMode = getEnvOrDefault("DB_SSL_MODE", "require")

		dbConfig.URI = fmt.Sprintf(
			"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
			dbConfig.User,
			dbConfig.Password,
			dbConfig.Host,
			dbConfig.Port,
			dbConfig.Name,
			dbConfig.SSLMode,
		)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q (want postgres or sqlite)", dbConfig.Type)
	}
	return dbConfig, nil
}

func loadAuthConfig(debug bool) (*AuthConfig, error) {
	authConfig := DefaultAuthConfig()

	authConfig.JWTSecret = os.Getenv("JWT_SECRET")
	if authConfig.JWTSecret == "" {
		if !debug {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required unless DEBUG=true")
		}
		authConfig.JWTSecret = devJWTSecret
	}

	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES %q", v)
		}
		authConfig.AccessTokenTTL = time.Duration(minutes) * time.Minute
	}
	if v := os.Getenv("REFRESH_TOKEN_EXPIRE_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid REFRESH_TOKEN_EXPIRE_DAYS %q", v)
		}
		authConfig.RefreshTokenTTL = time.Duration(days) * 24 * time.Hour
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		authConfig.CookieSecure = v != "false"
	}

	authConfig.AdminEmail = os.Getenv("ADMIN_EMAIL")
	authConfig.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	return authConfig, nil
}

// SQLiteDSN builds a modernc.org/sqlite DSN with foreign keys enforced.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Helper function to extract sslmode from a DSN, defaults to "require"
func getSSLModeFromURI(uri string) string {
	if _, query, ok := strings.Cut(uri, "?"); ok {
		for _, param := range strings.Split(query, "&") {
			if k, v, ok := strings.Cut(param, "="); ok && k == "sslmode" {
				return v
			}
		}
	}
	return "require"
}
