package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bsco/arena-lobby-backend/internal/store"
)

func TestLoad_DefaultPort(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.PostgresDSN)
}

func TestOpenStore_FallsBackToMemory(t *testing.T) {
	cfg := Config{}

	st, err := cfg.OpenStore(context.Background(), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, st)
}
