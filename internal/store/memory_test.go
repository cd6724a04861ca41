package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsco/arena-lobby-backend/internal/model"
)

func TestMemory_GetMissingKey(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(context.Background(), "NOPE12")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_SetGetRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	lobby := model.NewLobby("AB12CD")
	lobby.AddToWaitingList(model.Player{ID: "p1", Name: "Alice"})
	require.NoError(t, m.Set(ctx, "AB12CD", lobby, time.Hour))

	got, err := m.Get(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "AB12CD", got.Code)
	require.Len(t, got.WaitingList, 1)
	assert.Equal(t, "Alice", got.WaitingList[0].Name)
}

func TestMemory_StoredStateIsIsolated(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	lobby := model.NewLobby("AB12CD")
	require.NoError(t, m.Set(ctx, "AB12CD", lobby, 0))

	// Mutations after Set, and mutations of a Get result, must not leak
	// into the stored record.
	lobby.Teams[0].Name = "changed after set"
	first, err := m.Get(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "Team 1", first.Teams[0].Name)

	first.Teams[0].Name = "changed after get"
	second, err := m.Get(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "Team 1", second.Teams[0].Name)
}

func TestMemory_ListKeysByPrefix(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for _, code := range []string{"AB12CD", "AB99ZZ", "XY00XY"} {
		require.NoError(t, m.Set(ctx, code, model.NewLobby(code), 0))
	}

	all, err := m.ListKeys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ab, err := m.ListKeys(ctx, "AB")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AB12CD", "AB99ZZ"}, ab)
}
