package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "dev", cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.DB.Host)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, 30*time.Minute, cfg.ReminderInterval())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_MODE", "release")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USER", "assetmove")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("DB_NAME", "asset_movement")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 3307, cfg.DB.Port)
	assert.Equal(t, "assetmove", cfg.DB.Username)
	assert.Equal(t, "hunter2", cfg.DB.Password)
	assert.Equal(t, "asset_movement", cfg.DB.DBName)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
