package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"casino-livesync/internal/catalog"
	"casino-livesync/internal/config"
	"casino-livesync/internal/feed"
	"casino-livesync/internal/protocol"
	"casino-livesync/internal/simulation"
	"casino-livesync/internal/state"
	"casino-livesync/internal/uplink"
)

var ErrClosed = errors.New("session_closed")

// Mode says where store mutations currently come from.
type Mode string

const (
	ModeIdle         Mode = "idle"
	ModeConnecting   Mode = "connecting"
	ModeLive         Mode = "live"
	ModeReconnecting Mode = "reconnecting"
	ModeSimulated    Mode = "simulated"
	ModeClosed       Mode = "closed"
)

// Session is the public query and command surface over the live game state.
type Session struct {
	actor      state.Actor
	store      *state.Store
	dispatcher *state.Dispatcher
	feed       *feed.Buffer
	engine     *simulation.Engine
	link       *uplink.Manager
	now        func() time.Time

	// modeMu serializes mode transitions, which may block on the
	// simulation's in-flight tick.
	modeMu    sync.Mutex
	ctx       context.Context
	simulated bool

	mu      sync.RWMutex
	mode    Mode
	current string
	cameras map[string]string
}

func New(cfg config.AppConfig, source catalog.Source) (*Session, error) {
	st, err := state.NewStore()
	if err != nil {
		return nil, err
	}
	buf := feed.NewBuffer(cfg.Server.FeedBuffer)
	s := &Session{
		actor: state.Actor{
			ID:       cfg.Session.PlayerID,
			Username: cfg.Session.PlayerName,
			Chips:    cfg.Session.Chips,
			VIP:      cfg.Session.VIP,
		},
		store:   st,
		feed:    buf,
		now:     time.Now,
		ctx:     context.Background(),
		mode:    ModeIdle,
		cameras: map[string]string{},
	}
	s.dispatcher = state.NewDispatcher(st, buf)
	s.engine = simulation.NewEngine(cfg.Simulation, st, s.dispatcher, source)
	s.link = uplink.NewManager(cfg.Uplink, cfg.Session.PlayerID, uplink.Hooks{
		OnConnected:      s.onConnected,
		OnDisconnected:   s.onDisconnected,
		OnUnavailable:    s.onUnavailable,
		OnEvent:          s.onEvent,
		OnRetryScheduled: s.onRetryScheduled,
	})
	return s, nil
}

// Start begins sourcing state: the authority when reachable, the simulation
// otherwise. It does not wait for the connection.
func (s *Session) Start(ctx context.Context) {
	s.modeMu.Lock()
	s.ctx = ctx
	s.modeMu.Unlock()
	s.setMode(ModeConnecting)
	s.link.Connect(ctx)
}

// Reconnect restarts the connection cycle with a fresh retry budget. The
// simulation keeps running until the authority answers.
func (s *Session) Reconnect(ctx context.Context) {
	if s.Mode() == ModeClosed {
		return
	}
	s.modeMu.Lock()
	s.ctx = ctx
	s.modeMu.Unlock()
	if s.Mode() != ModeSimulated {
		s.setMode(ModeConnecting)
	}
	s.link.Reconnect(ctx)
}

func (s *Session) Close() {
	s.link.Disconnect()
	s.modeMu.Lock()
	s.engine.Stop()
	s.setMode(ModeClosed)
	s.modeMu.Unlock()
	s.feed.Close()
}

func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *Session) setMode(m Mode) {
	s.mu.Lock()
	prev := s.mode
	if prev == ModeClosed {
		s.mu.Unlock()
		return
	}
	s.mode = m
	s.mu.Unlock()
	if prev != m {
		metricModeSwitches.Add(1)
		log.Info().Str("from", string(prev)).Str("to", string(m)).Msg("session_mode_changed")
	}
}

// Engine exposes the simulation so callers can drive ticks by hand.
func (s *Session) Engine() *simulation.Engine {
	return s.engine
}

func (s *Session) Feed() *feed.Buffer {
	return s.feed
}

func (s *Session) Subscribe() chan feed.Update {
	return s.feed.Subscribe()
}

func (s *Session) Unsubscribe(ch chan feed.Update) {
	s.feed.Unsubscribe(ch)
}

func (s *Session) startSimulation() {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	if s.Mode() == ModeClosed {
		return
	}
	if err := s.engine.Start(s.ctx); err != nil {
		log.Error().Err(err).Msg("simulation_start_failed")
		return
	}
	s.simulated = true
	s.setMode(ModeSimulated)
}

// onConnected stops the simulation before any authority frame is read and
// discards simulated rounds; authority snapshots then replace entities.
func (s *Session) onConnected() {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.engine.Stop()
	if s.simulated {
		s.discardSimulatedRounds()
		s.simulated = false
	}
	s.setMode(ModeLive)
}

func (s *Session) discardSimulatedRounds() {
	reset := 0
	for _, g := range s.store.Games() {
		if g.CurrentRound == nil && g.LastRoundNumber == 0 {
			continue
		}
		g.CurrentRound = nil
		g.LastRoundNumber = 0
		if s.dispatcher.Apply(protocol.GameUpdate{Game: *g}) {
			reset++
		}
	}
	log.Info().Int("games", reset).Msg("session_reconciled_authority_wins")
}

func (s *Session) onDisconnected(err error) {
	if err == nil {
		s.startSimulation()
		return
	}
	s.setMode(ModeReconnecting)
}

func (s *Session) onUnavailable() {
	s.startSimulation()
}

func (s *Session) onRetryScheduled(attempt int, delay time.Duration) {
	log.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("session_waiting_for_authority")
}

func (s *Session) onEvent(ev protocol.Event) {
	s.dispatcher.Apply(ev)
}
