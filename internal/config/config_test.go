package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "HOST", "METRICS_ENABLED", "UPLOAD_DIR", "ALLOWED_ORIGINS", "DEBUG",
		"DB_TYPE", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "SQLITE_PATH",
		"JWT_SECRET", "ACCESS_TOKEN_EXPIRE_MINUTES", "REFRESH_TOKEN_EXPIRE_DAYS", "COOKIE_SECURE",
		"ADMIN_EMAIL", "ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/blog?sslmode=disable")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.Debug)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("DEBUG", "true")
	t.Setenv("PORT", "9000")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("REFRESH_TOKEN_EXPIRE_DAYS", "1")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Contains(t, cfg.Database.URI, "file:/tmp/x.db?")
	assert.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestFromEnvErrors(t *testing.T) {
	t.Run("missing secret outside debug", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_TYPE", "sqlite")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})
	t.Run("postgres without credentials", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "x")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "DB_USER")
	})
	t.Run("unknown database type", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_TYPE", "mongodb")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "unsupported DB_TYPE")
	})
	t.Run("bad token lifetime", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_TYPE", "sqlite")
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "-3")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestGetSSLModeFromURI(t *testing.T) {
	assert.Equal(t, "verify-full", getSSLModeFromURI("postgres://h/db?a=b&sslmode=verify-full"))
	assert.Equal(t, "require", getSSLModeFromURI("postgres://h/db"))
}
