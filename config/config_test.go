package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironmentOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("WS_PONG_WAIT_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30, cfg.WS.PongWaitSeconds)
	assert.Equal(t, 27*time.Second, cfg.WS.PingPeriod())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.False(t, cfg.LogDev)
	assert.Equal(t, 10*time.Second, cfg.WS.WriteWait())
	assert.Equal(t, 60*time.Second, cfg.WS.PongWait())
	assert.Equal(t, int64(65536), cfg.WS.MaxMessageSizeBytes)
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
