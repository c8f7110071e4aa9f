package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SESSION_PATH", filepath.Join(t.TempDir(), "session.json"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, "console-backend", cfg.JWTIssuer)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, SessionFile, cfg.SessionBackend)
	assert.True(t, cfg.SessionWatch)
	assert.False(t, cfg.VerifyPassword)
	assert.InDelta(t, 0.5, cfg.ReplyProbability, 1e-9)
	assert.Equal(t, 8*time.Second, cfg.ReplyDelayMin)
	assert.Equal(t, 13*time.Second, cfg.ReplyDelayMax)
	assert.Equal(t, 5*time.Second, cfg.ToastDuration)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", " 9090 ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SESSION_BACKEND", "SQLite")
	t.Setenv("REPLY_PROBABILITY", "1")
	t.Setenv("REPLY_DELAY_MIN_SECONDS", "1")
	t.Setenv("REPLY_DELAY_MAX_SECONDS", "2")
	t.Setenv("JWT_TTL_MINUTES", "-5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, SessionSQLite, cfg.SessionBackend)
	assert.Equal(t, "session.db", filepath.Base(cfg.SessionPath))
	assert.InDelta(t, 1.0, cfg.ReplyProbability, 1e-9)
	assert.Equal(t, time.Second, cfg.ReplyDelayMin)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	t.Setenv("SESSION_BACKEND", "cookie")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("REPLY_PROBABILITY", "1.5")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("REPLY_PROBABILITY", "0.5")
	t.Setenv("REPLY_DELAY_MIN_SECONDS", "20")
	t.Setenv("REPLY_DELAY_MAX_SECONDS", "10")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET: from-file\nPORT: \"7000\"\nSESSION_BACKEND: memory\n"), 0o600))
	t.Setenv("PORT", "7100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "7100", cfg.Port, "environment overrides the file")
	assert.Equal(t, SessionMemory, cfg.SessionBackend)
}
