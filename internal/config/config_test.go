package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.toml")
	t.Setenv("LLM_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestLoadDefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.toml")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	t.Setenv("MAX_CODE_LENGTH", "1234")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ACCESS_TOKEN", "secret-token")
	t.Setenv("ARCHIVE_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 30, cfg.RateLimit.WindowSeconds)
	assert.Equal(t, 1234, cfg.Review.MaxCodeLength)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "secret-token", cfg.Auth.AccessToken)
	assert.True(t, cfg.Archive.Enabled)

	// untouched defaults
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, time.Hour, time.Duration(cfg.Redis.SessionTTLSeconds)*time.Second)
	assert.Empty(t, cfg.Redis.Addr, "session persistence is off by default")
}

func TestMySQLDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.MySQL.User = "u"
	cfg.MySQL.Password = "p"
	cfg.MySQL.Host = "db"
	cfg.MySQL.Port = 3307
	cfg.MySQL.DB = "archive"
	cfg.MySQL.Params = "parseTime=true"

	assert.Equal(t, "u:p@tcp(db:3307)/archive?parseTime=true", cfg.MySQLDSN())
}
