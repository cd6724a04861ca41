package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bsco/arena-lobby-backend/internal/model"
)

// Memory keeps lobbies in a process-local map. State is lost on restart and
// is not shared across server instances; entries never expire. Intended for
// development and tests.
type Memory struct {
	mu      sync.RWMutex
	lobbies map[string]*model.Lobby
}

func NewMemory() *Memory {
	return &Memory{lobbies: make(map[string]*model.Lobby)}
}

func (m *Memory) Get(ctx context.Context, key string) (*model.Lobby, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lobbies[key]
	if !ok {
		return nil, ErrNotFound
	}
	return l.Clone(), nil
}

func (m *Memory) Set(ctx context.Context, key string, lobby *model.Lobby, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Clone both ways so callers can't alias stored state.
	m.lobbies[key] = lobby.Clone()
	return nil
}

func (m *Memory) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.lobbies))
	for k := range m.lobbies {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

var _ Store = (*Memory)(nil)
