package store

import (
	"context"
	"errors"
	"time"

	"github.com/bsco/arena-lobby-backend/internal/model"
)

var ErrNotFound = errors.New("lobby not found")

// Store is the persistence boundary for lobby records. Implementations may
// be backed by process memory, Redis, or Postgres; callers never branch on
// which one is active. TTL handling is best-effort: backends without expiry
// ignore it.
type Store interface {
	Get(ctx context.Context, key string) (*model.Lobby, error)
	Set(ctx context.Context, key string, lobby *model.Lobby, ttl time.Duration) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
