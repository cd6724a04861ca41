package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bsco/arena-lobby-backend/internal/httpapi"
	"github.com/bsco/arena-lobby-backend/internal/model"
	"github.com/bsco/arena-lobby-backend/internal/repo"
	"github.com/bsco/arena-lobby-backend/internal/store"
)

func newBackend(t *testing.T) *Client {
	t.Helper()
	rep := repo.New(store.NewMemory(), zap.NewNop())
	srv := httptest.NewServer(httpapi.SetupRoutes(rep, zap.NewNop()))
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

// fastSession compresses the timing policy so tests don't sit through the
// production 2 s / 300 ms cadence.
func fastSession(t *testing.T, api *Client, code, name string) *Session {
	t.Helper()
	s := NewSession(api, code, name, zap.NewNop())
	// Poll slowly relative to the debounce so a test's optimistic mutation
	// is pushed before the first overwrite-poll can race it.
	s.PollInterval = 200 * time.Millisecond
	s.Debounce = 10 * time.Millisecond
	return s
}

func TestClient_CreateAndGet(t *testing.T) {
	api := newBackend(t)
	ctx := context.Background()

	code, err := api.CreateLobby(ctx)
	require.NoError(t, err)
	require.Len(t, code, repo.CodeLength)

	lobby, err := api.GetLobby(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, code, lobby.Code)
	assert.Len(t, lobby.Teams, 2)

	_, err = api.GetLobby(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = api.JoinLobby(ctx, "  ")
	assert.ErrorIs(t, err, ErrMissingCode)
}

func TestSession_StartFailsOnUnknownLobby(t *testing.T) {
	api := newBackend(t)

	s := fastSession(t, api, "ZZZZZZ", "Alice")
	err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, StateLoading, s.State())
}

func TestSession_DebouncedPushReachesServer(t *testing.T) {
	api := newBackend(t)
	ctx := context.Background()
	code, err := api.CreateLobby(ctx)
	require.NoError(t, err)

	s := fastSession(t, api, code, "Alice")
	require.NoError(t, s.Start(ctx))
	defer s.Close()
	assert.Equal(t, StateSynced, s.State())

	require.True(t, s.JoinWaitingList("Alice"))
	assert.False(t, s.JoinWaitingList("   "), "blank names are rejected")

	require.Eventually(t, func() bool {
		lobby, err := api.GetLobby(ctx, code)
		return err == nil && lobby.OnWaitingList(s.PlayerID())
	}, 2*time.Second, 10*time.Millisecond, "debounced push should land on the server")
}

func TestSession_SlotJoinPushesImmediatelyAndHoldsInvariant(t *testing.T) {
	api := newBackend(t)
	ctx := context.Background()
	code, err := api.CreateLobby(ctx)
	require.NoError(t, err)

	s := fastSession(t, api, code, "Alice")
	require.NoError(t, s.Start(ctx))
	defer s.Close()

	require.True(t, s.JoinWaitingList("Alice"))
	require.True(t, s.JoinSlot(model.TeamOne, model.SlotCaptain, 0))

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.SlotCount(s.PlayerID()))
	assert.False(t, snap.OnWaitingList(s.PlayerID()))

	require.Eventually(t, func() bool {
		lobby, err := api.GetLobby(ctx, code)
		if err != nil {
			return false
		}
		cap0 := lobby.Teams[0].Captains[0]
		return cap0 != nil && cap0.ID == s.PlayerID() && !lobby.OnWaitingList(s.PlayerID())
	}, 2*time.Second, 10*time.Millisecond)
}

// One session's change becomes visible to another through the poll cycle.
func TestSessions_ConvergeThroughPolling(t *testing.T) {
	api := newBackend(t)
	ctx := context.Background()
	code, err := api.CreateLobby(ctx)
	require.NoError(t, err)

	alice := fastSession(t, api, code, "Alice")
	require.NoError(t, alice.Start(ctx))
	defer alice.Close()

	bob := fastSession(t, api, code, "Bob")
	require.NoError(t, bob.Start(ctx))
	defer bob.Close()

	require.True(t, alice.JoinWaitingList("Alice"))
	require.True(t, alice.JoinSlot(model.TeamTwo, model.SlotPlayer, 3))

	require.Eventually(t, func() bool {
		snap := bob.Snapshot()
		p := snap.Teams[1].Players[3]
		return p != nil && p.ID == alice.PlayerID()
	}, 2*time.Second, 10*time.Millisecond, "bob's poll should observe alice's slot join")
}

func TestSession_CaptainRenameSyncs(t *testing.T) {
	api := newBackend(t)
	ctx := context.Background()
	code, err := api.CreateLobby(ctx)
	require.NoError(t, err)

	s := fastSession(t, api, code, "Cap")
	require.NoError(t, s.Start(ctx))
	defer s.Close()

	assert.False(t, s.RenameTeam(model.TeamOne, "Sharks"), "rename requires captain slot 0")

	require.True(t, s.JoinWaitingList("Cap"))
	require.True(t, s.JoinSlot(model.TeamOne, model.SlotCaptain, 0))
	require.True(t, s.RenameTeam(model.TeamOne, "Sharks"))
	require.True(t, s.RecolorTeam(model.TeamOne, "#22c55e"))

	require.Eventually(t, func() bool {
		lobby, err := api.GetLobby(ctx, code)
		return err == nil && lobby.Teams[0].Name == "Sharks" && lobby.Teams[0].Color == "#22c55e"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSession_LeaveLobbyPurgesPlayer(t *testing.T) {
	api := newBackend(t)
	ctx := context.Background()
	code, err := api.CreateLobby(ctx)
	require.NoError(t, err)

	s := fastSession(t, api, code, "Alice")
	require.NoError(t, s.Start(ctx))

	require.True(t, s.JoinWaitingList("Alice"))
	require.True(t, s.JoinSlot(model.TeamOne, model.SlotPlayer, 0))
	require.NoError(t, s.LeaveLobby(ctx))
	s.Close()

	lobby, err := api.GetLobby(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, 0, lobby.SlotCount(s.PlayerID()))
	assert.False(t, lobby.OnWaitingList(s.PlayerID()))
}

// The close beacon is best-effort; it usually lands, and this test gives it
// generous time, but it asserts the purge payload rather than delivery
// timing guarantees.
func TestSession_CloseBeaconPurgesPlayer(t *testing.T) {
	api := newBackend(t)
	ctx := context.Background()
	code, err := api.CreateLobby(ctx)
	require.NoError(t, err)

	s := fastSession(t, api, code, "Alice")
	require.NoError(t, s.Start(ctx))
	require.True(t, s.JoinWaitingList("Alice"))

	require.Eventually(t, func() bool {
		lobby, err := api.GetLobby(ctx, code)
		return err == nil && lobby.OnWaitingList(s.PlayerID())
	}, 2*time.Second, 10*time.Millisecond)

	s.Close()

	require.Eventually(t, func() bool {
		lobby, err := api.GetLobby(ctx, code)
		return err == nil && !lobby.OnWaitingList(s.PlayerID())
	}, 2*time.Second, 10*time.Millisecond)
}
