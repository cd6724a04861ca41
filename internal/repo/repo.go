package repo

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bsco/arena-lobby-backend/internal/model"
	"github.com/bsco/arena-lobby-backend/internal/store"
)

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength  = 6

	// maxCodeAttempts bounds collision retries; past the bound the last
	// candidate is used as-is, accepting the small collision risk.
	maxCodeAttempts = 10

	// LobbyTTL is passed to the store; backends without expiry ignore it.
	LobbyTTL = time.Hour
)

var (
	ErrMissingCode = errors.New("code required")
	ErrNotFound    = errors.New("not found")
	ErrPersist     = errors.New("persist failed")
)

// Repository is the sole writer of lobby records. It owns code generation
// and the create/get/update operations over an injected Store.
type Repository struct {
	store store.Store
	log   *zap.Logger
}

func New(s store.Store, log *zap.Logger) *Repository {
	return &Repository{store: s, log: log}
}

func GenerateCode() (string, error) {
	code := make([]byte, CodeLength)
	for i := 0; i < CodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code), nil
}

// NormalizeCode makes lookups case- and whitespace-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create generates a fresh code, retrying on collision up to maxCodeAttempts
// before proceeding with the last candidate, then persists a lobby with
// default teams and an empty waiting list.
func (r *Repository) Create(ctx context.Context) (string, error) {
	existing, err := r.store.ListKeys(ctx, "")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersist, err)
	}
	taken := make(map[string]bool, len(existing))
	for _, k := range existing {
		taken[k] = true
	}

	var code string
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err = GenerateCode()
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		if !taken[code] {
			break
		}
		r.log.Info("lobby code collision, regenerating", zap.String("code", code))
	}

	lobby := model.NewLobby(code)
	if err := r.store.Set(ctx, code, lobby, LobbyTTL); err != nil {
		r.log.Error("failed to persist new lobby", zap.String("code", code), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrPersist, err)
	}
	r.log.Info("lobby created", zap.String("code", code))
	return code, nil
}

// Get looks up a lobby by normalized code.
func (r *Repository) Get(ctx context.Context, code string) (*model.Lobby, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrMissingCode
	}
	lobby, err := r.store.Get(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return lobby, nil
}

// Join is a read that signals a client's intent to start syncing; there is
// no server-side state to register.
func (r *Repository) Join(ctx context.Context, code string) (*model.Lobby, error) {
	lobby, err := r.Get(ctx, code)
	if err == nil {
		r.log.Debug("client joined lobby", zap.String("code", lobby.Code))
	}
	return lobby, err
}

// Update describes a partial lobby write. A nil field keeps the stored
// value; a non-nil field replaces the stored one wholesale. There is no
// deep merge: concurrent writers race and the last write wins per field.
type Update struct {
	Teams       []model.Team   `json:"teams"`
	WaitingList []model.Player `json:"waitingList"`
}

// Apply applies an update to an existing lobby. It never creates a record
// for an unknown code.
func (r *Repository) Apply(ctx context.Context, code string, upd Update) error {
	code = NormalizeCode(code)
	if code == "" {
		return ErrMissingCode
	}
	lobby, err := r.store.Get(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	if upd.Teams != nil {
		lobby.Teams = upd.Teams
	}
	if upd.WaitingList != nil {
		lobby.WaitingList = upd.WaitingList
	}

	if err := r.store.Set(ctx, code, lobby, LobbyTTL); err != nil {
		r.log.Error("failed to persist lobby update", zap.String("code", code), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
