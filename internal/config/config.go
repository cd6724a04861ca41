package config

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bsco/arena-lobby-backend/internal/store"
)

type Config struct {
	Port        string
	RedisURL    string
	PostgresDSN string
}

// Load reads an optional .env file and the environment. Which storage
// credentials are present decides the backend; see OpenStore.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:        os.Getenv("PORT"),
		RedisURL:    os.Getenv("REDIS_URL"),
		PostgresDSN: os.Getenv("DATABASE_URL"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg
}

// OpenStore picks exactly one backend: Postgres when DATABASE_URL is set,
// Redis when REDIS_URL is set, otherwise the volatile in-memory store.
func (c Config) OpenStore(ctx context.Context, log *zap.Logger) (store.Store, error) {
	switch {
	case c.PostgresDSN != "":
		log.Info("using postgres store")
		return store.NewPostgres(c.PostgresDSN)
	case c.RedisURL != "":
		log.Info("using redis store")
		return store.NewRedis(ctx, c.RedisURL)
	default:
		log.Warn("no storage credentials configured, falling back to in-memory store; lobbies are lost on restart and not shared across instances")
		return store.NewMemory(), nil
	}
}
