package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.API.Port)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "disk", cfg.Storage.Backend)
	assert.True(t, cfg.Fallback.Enabled)
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.API.Production())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "production")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/site")
	t.Setenv("FRONTEND_URLS", "https://a.example.com, https://b.example.com")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("EMAIL_USER", "me@example.com")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("FALLBACK_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.API.Port)
	assert.True(t, cfg.API.Production())
	assert.Equal(t, "mongodb://db:27017/site", cfg.Database.URI)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.API.FrontendURLs)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Mail.Enabled())
	assert.False(t, cfg.Fallback.Enabled)
}

func TestLoadRejectsQueueWithoutRedis(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("NOTIFY_DISPATCH", "queue")
	t.Setenv("REDIS_ADDR", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsIncompleteMinIO(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")

	_, err := Load()
	require.Error(t, err)
}
