package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRES_HOURS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.AdminEmail)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "quotes_prod")
	t.Setenv("JWT_EXPIRES_HOURS", "72")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "quotes_prod", cfg.DBName)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
}

func TestLoadIgnoresInvalidTTL(t *testing.T) {
	t.Setenv("JWT_EXPIRES_HOURS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}
