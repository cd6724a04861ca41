package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bsco/arena-lobby-backend/internal/model"
	"github.com/bsco/arena-lobby-backend/internal/repo"
)

type SyncState string

const (
	StateLoading SyncState = "loading"
	StateSynced  SyncState = "synced"
	StateSyncing SyncState = "syncing"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultDebounce     = 300 * time.Millisecond
)

// Session is one participant's view of a lobby: an optimistic local mirror
// of teams and waiting list, kept eventually consistent with the server.
// Local mutations apply immediately and arm a debounced push; a fixed
// interval poll overwrites the mirror with the server's record, which is
// how changes from other sessions become visible. Poll and push are not
// serialized against each other; the last response wins.
type Session struct {
	api  *Client
	code string
	self model.Player
	log  *zap.Logger

	// Overridable before Start; tests compress them.
	PollInterval time.Duration
	Debounce     time.Duration

	mu    sync.Mutex
	cache *model.Lobby
	state SyncState

	armed     chan struct{}
	immediate chan struct{}
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewSession creates a session for the given lobby code. The player id is
// generated per session and never reused.
func NewSession(api *Client, code, displayName string, log *zap.Logger) *Session {
	id := "player-" + uuid.NewString()[:8]
	return &Session{
		api:  api,
		code: code,
		self: model.Player{ID: id, Name: displayName},
		log:  log,

		PollInterval: DefaultPollInterval,
		Debounce:     DefaultDebounce,

		cache:     model.NewLobby(code),
		state:     StateLoading,
		armed:     make(chan struct{}, 1),
		immediate: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Start performs the initial authoritative fetch and launches the poll and
// push loops. On a fetch failure nothing is started; the caller is expected
// to navigate away.
func (s *Session) Start(ctx context.Context) error {
	lobby, err := s.api.GetLobby(ctx, s.code)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache.Teams = lobby.Teams
	s.cache.WaitingList = lobby.WaitingList
	s.state = StateSynced
	s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	g, runCtx := errgroup.WithContext(runCtx)
	g.Go(func() error { return s.pollLoop(runCtx) })
	g.Go(func() error { return s.pushLoop(runCtx) })
	go func() {
		_ = g.Wait()
		close(s.done)
	}()
	return nil
}

// Close stops the loops and fires the unload beacon: a fire-and-forget push
// with this player purged from every slot and the waiting list. Delivery is
// not confirmed.
func (s *Session) Close() {
	s.mu.Lock()
	purged := s.cache.Clone()
	purged.RemovePlayer(s.self.ID)
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.api.UpdateLobby(ctx, s.code, repo.Update{
			Teams:       purged.Teams,
			WaitingList: purged.WaitingList,
		})
	}()

	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

func (s *Session) pollLoop(ctx context.Context) error {
	t := time.NewTicker(s.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			lobby, err := s.api.GetLobby(ctx, s.code)
			if err != nil {
				// Transient read failures retry on the next tick.
				s.log.Warn("poll failed", zap.String("code", s.code), zap.Error(err))
				continue
			}
			s.mu.Lock()
			s.cache.Teams = lobby.Teams
			s.cache.WaitingList = lobby.WaitingList
			s.mu.Unlock()
		}
	}
}

func (s *Session) pushLoop(ctx context.Context) error {
	timer := time.NewTimer(s.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.armed:
			timer.Reset(s.Debounce)
		case <-s.immediate:
			s.push(ctx)
		case <-timer.C:
			s.push(ctx)
		}
	}
}

// push sends the full current teams+waitingList. The session returns to
// Synced whether or not the write lands; failures are logged, not retried.
func (s *Session) push(ctx context.Context) {
	s.mu.Lock()
	s.state = StateSyncing
	snap := s.cache.Clone()
	s.mu.Unlock()

	err := s.api.UpdateLobby(ctx, s.code, repo.Update{
		Teams:       snap.Teams,
		WaitingList: snap.WaitingList,
	})
	if err != nil {
		s.log.Warn("sync push failed", zap.String("code", s.code), zap.Error(err))
	}

	s.mu.Lock()
	s.state = StateSynced
	s.mu.Unlock()
}

// arm (re)schedules the debounced push.
func (s *Session) arm() {
	select {
	case s.armed <- struct{}{}:
	default:
	}
}

// pushNow layers an immediate push on top of the debounce path, used for
// slot joins and leaves so the acting client sees minimal latency.
func (s *Session) pushNow() {
	select {
	case s.immediate <- struct{}{}:
	default:
	}
	s.arm()
}

// JoinWaitingList registers this player on the waiting list under the given
// display name. Blank names are rejected.
func (s *Session) JoinWaitingList(name string) bool {
	s.mu.Lock()
	p := s.self
	p.Name = name
	ok := s.cache.AddToWaitingList(p)
	if ok {
		s.self.Name = strings.TrimSpace(name)
	}
	s.mu.Unlock()
	if ok {
		s.arm()
	}
	return ok
}

// JoinSlot claims a team slot for this player, who must be on the waiting
// list or already seated. On success the change is pushed immediately.
func (s *Session) JoinSlot(teamID string, kind model.SlotKind, idx int) bool {
	s.mu.Lock()
	ok := s.cache.JoinSlot(s.self.ID, teamID, kind, idx)
	s.mu.Unlock()
	if ok {
		s.pushNow()
	}
	return ok
}

// LeaveSlot vacates a slot and pushes immediately.
func (s *Session) LeaveSlot(teamID string, kind model.SlotKind, idx int) bool {
	s.mu.Lock()
	ok := s.cache.LeaveSlot(teamID, kind, idx)
	s.mu.Unlock()
	if ok {
		s.pushNow()
	}
	return ok
}

// RenameTeam renames a team; only succeeds when this player holds captain
// slot 0 of that team. The server does not re-check this.
func (s *Session) RenameTeam(teamID, name string) bool {
	s.mu.Lock()
	ok := s.cache.RenameTeam(s.self.ID, teamID, name)
	s.mu.Unlock()
	if ok {
		s.arm()
	}
	return ok
}

// RecolorTeam changes a team color under the same captain-0 rule.
func (s *Session) RecolorTeam(teamID, color string) bool {
	s.mu.Lock()
	ok := s.cache.RecolorTeam(s.self.ID, teamID, color)
	s.mu.Unlock()
	if ok {
		s.arm()
	}
	return ok
}

// LeaveLobby removes this player everywhere and pushes synchronously,
// unlike the Close beacon.
func (s *Session) LeaveLobby(ctx context.Context) error {
	s.mu.Lock()
	s.cache.RemovePlayer(s.self.ID)
	snap := s.cache.Clone()
	s.mu.Unlock()

	return s.api.UpdateLobby(ctx, s.code, repo.Update{
		Teams:       snap.Teams,
		WaitingList: snap.WaitingList,
	})
}

// Snapshot returns a copy of the local mirror.
func (s *Session) Snapshot() *model.Lobby {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Clone()
}

func (s *Session) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) PlayerID() string { return s.self.ID }
