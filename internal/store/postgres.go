package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bsco/arena-lobby-backend/internal/model"
)

// lobbyRow maps a lobby onto a single jsonb payload column keyed by code.
// created_at/updated_at are server-side gorm timestamps. Postgres has no
// entry expiry; rows live until cleaned up out of band.
type lobbyRow struct {
	Code      string `gorm:"primaryKey;size:6"`
	Payload   []byte `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (lobbyRow) TableName() string { return "lobbies" }

type Postgres struct {
	db *gorm.DB
}

// NewPostgres opens a connection from a DSN and migrates the lobbies table.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&lobbyRow{}); err != nil {
		return nil, fmt.Errorf("migrate lobbies table: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (*model.Lobby, error) {
	var row lobbyRow
	err := p.db.WithContext(ctx).First(&row, "code = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}
	var lobby model.Lobby
	if err := json.Unmarshal(row.Payload, &lobby); err != nil {
		return nil, fmt.Errorf("decode lobby %s: %w", key, err)
	}
	return &lobby, nil
}

// Set upserts on the code column. The ttl is ignored.
func (p *Postgres) Set(ctx context.Context, key string, lobby *model.Lobby, ttl time.Duration) error {
	payload, err := json.Marshal(lobby)
	if err != nil {
		return fmt.Errorf("encode lobby %s: %w", key, err)
	}
	row := lobbyRow{Code: key, Payload: payload}
	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := p.db.WithContext(ctx).
		Model(&lobbyRow{}).
		Where("code LIKE ?", prefix+"%").
		Pluck("code", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("postgres list keys: %w", err)
	}
	return keys, nil
}

var _ Store = (*Postgres)(nil)
