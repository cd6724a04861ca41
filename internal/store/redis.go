package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bsco/arena-lobby-backend/internal/model"
)

// keyPrefix namespaces lobby records inside a shared Redis database.
const keyPrefix = "lobby:"

// Redis stores lobbies as JSON values with a per-entry TTL, so abandoned
// lobbies expire on their own.
type Redis struct {
	client *redis.Client
}

// NewRedis connects using a redis:// URL and verifies the connection with a
// ping before returning.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (*model.Lobby, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var lobby model.Lobby
	if err := json.Unmarshal(data, &lobby); err != nil {
		return nil, fmt.Errorf("decode lobby %s: %w", key, err)
	}
	return &lobby, nil
}

func (r *Redis) Set(ctx context.Context, key string, lobby *model.Lobby, ttl time.Duration) error {
	data, err := json.Marshal(lobby)
	if err != nil {
		return fmt.Errorf("encode lobby %s: %w", key, err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, keyPrefix+prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(keyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return keys, nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Store = (*Redis)(nil)
