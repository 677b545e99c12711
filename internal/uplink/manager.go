package uplink

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"casino-livesync/internal/auth"
	"casino-livesync/internal/config"
	"casino-livesync/internal/protocol"
)

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateBackingOff   State = "backing_off"
	StateUnavailable  State = "unavailable"
)

var (
	ErrNotConnected  = errors.New("not_connected")
	ErrSendQueueFull = errors.New("send_queue_full")
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxFrameSize = 1 << 20
)

// Hooks are called without the manager lock held. OnConnected runs before
// the first inbound frame is read.
type Hooks struct {
	OnConnected      func()
	OnDisconnected   func(err error)
	OnUnavailable    func()
	OnEvent          func(ev protocol.Event)
	OnRetryScheduled func(attempt int, delay time.Duration)
}

// Manager owns the single websocket to the authority.
type Manager struct {
	cfg       config.UplinkConfig
	playerID  string
	sessionID string
	hooks     Hooks
	dialer    *websocket.Dialer
	now       func() time.Time

	mu               sync.Mutex
	state            State
	attempt          int
	gen              uint64
	timer            *time.Timer
	conn             *websocket.Conn
	send             chan []byte
	done             chan struct{}
	unavailableFired bool
}

func NewManager(cfg config.UplinkConfig, playerID string, hooks Hooks) *Manager {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	return &Manager{
		cfg:       cfg,
		playerID:  playerID,
		sessionID: uuid.NewString(),
		hooks:     hooks,
		dialer:    &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout()},
		now:       time.Now,
		state:     StateDisconnected,
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Attempt() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempt
}

func (m *Manager) SessionID() string {
	return m.sessionID
}

// Connect starts a connect cycle and returns without waiting for the dial.
// It is a no-op while a cycle is already running. With no endpoint configured
// the manager goes straight to unavailable.
func (m *Manager) Connect(ctx context.Context) {
	m.mu.Lock()
	switch m.state {
	case StateConnecting, StateConnected, StateBackingOff:
		m.mu.Unlock()
		return
	}
	if m.cfg.URL == "" {
		fire := m.markUnavailableLocked()
		m.mu.Unlock()
		log.Info().Msg("uplink_no_endpoint")
		fire()
		return
	}
	if m.state == StateUnavailable {
		m.mu.Unlock()
		return
	}
	m.gen++
	gen := m.gen
	m.state = StateConnecting
	m.mu.Unlock()

	go m.dial(ctx, gen)
}

// Reconnect abandons the current cycle and starts a fresh one with a full
// retry budget.
func (m *Manager) Reconnect(ctx context.Context) {
	m.Disconnect()
	m.mu.Lock()
	m.attempt = 0
	m.unavailableFired = false
	m.state = StateDisconnected
	m.mu.Unlock()
	m.Connect(ctx)
}

// Disconnect closes the socket and cancels any pending retry. Safe to call
// repeatedly. Hooks are not invoked.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.conn != nil {
		_ = m.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
	}
	m.closeConnLocked()
	if m.state != StateUnavailable {
		m.state = StateDisconnected
	}
}

// Send queues cmd for the writer without blocking.
func (m *Manager) Send(cmd protocol.Command) error {
	data, err := protocol.EncodeCommand(cmd)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateConnected {
		return ErrNotConnected
	}
	select {
	case m.send <- data:
		return nil
	default:
		metricSendRejectedTotal.Add(1)
		return ErrSendQueueFull
	}
}

func (m *Manager) dial(ctx context.Context, gen uint64) {
	metricDialTotal.Add(1)
	header, err := m.handshakeHeader()
	var conn *websocket.Conn
	if err == nil {
		dctx, cancel := context.WithTimeout(ctx, m.cfg.HandshakeTimeout())
		conn, _, err = m.dialer.DialContext(dctx, m.cfg.URL, header)
		cancel()
	}

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		metricDialFailedTotal.Add(1)
		attempt := m.attempt
		fire := m.scheduleRetryLocked(ctx, gen)
		m.mu.Unlock()
		log.Warn().Err(err).Int("attempt", attempt).Str("url", m.cfg.URL).Msg("uplink_dial_failed")
		fire()
		return
	}
	m.state = StateConnected
	m.attempt = 0
	m.conn = conn
	m.send = make(chan []byte, m.cfg.SendBuffer)
	m.done = make(chan struct{})
	send, done := m.send, m.done
	m.mu.Unlock()

	log.Info().Str("url", m.cfg.URL).Str("session_id", m.sessionID).Msg("uplink_connected")
	go m.writeLoop(conn, send, done)
	if m.hooks.OnConnected != nil {
		m.hooks.OnConnected()
	}
	m.readLoop(ctx, gen, conn)
}

func (m *Manager) handshakeHeader() (http.Header, error) {
	header := http.Header{}
	header.Set("X-Client-Session", m.sessionID)
	if m.cfg.TokenSecret != "" {
		token, err := auth.IssueToken(m.cfg.TokenSecret, m.playerID, m.cfg.TokenTTL(), m.now())
		if err != nil {
			return nil, err
		}
		header.Set("Authorization", "Bearer "+token)
	}
	return header, nil
}

func (m *Manager) readLoop(ctx context.Context, gen uint64, conn *websocket.Conn) {
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.handleClose(ctx, gen, err)
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		metricFramesInTotal.Add(1)
		ev, err := protocol.Decode(data)
		if err != nil {
			metricFramesDroppedTotal.Add(1)
			if errors.Is(err, protocol.ErrUnknownFrame) {
				log.Debug().Err(err).Msg("uplink_frame_ignored")
			} else {
				log.Warn().Err(err).Int("bytes", len(data)).Msg("uplink_frame_dropped")
			}
			continue
		}
		if !m.current(gen) {
			return
		}
		if m.hooks.OnEvent != nil {
			m.hooks.OnEvent(ev)
		}
	}
}

func (m *Manager) writeLoop(conn *websocket.Conn, send <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				_ = conn.Close()
				return
			}
			metricFramesOutTotal.Add(1)
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (m *Manager) handleClose(ctx context.Context, gen uint64, cause error) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.closeConnLocked()
	if websocket.IsCloseError(cause, websocket.CloseNormalClosure) {
		m.state = StateDisconnected
		m.mu.Unlock()
		log.Info().Msg("uplink_closed_by_authority")
		if m.hooks.OnDisconnected != nil {
			m.hooks.OnDisconnected(nil)
		}
		return
	}
	fire := m.scheduleRetryLocked(ctx, gen)
	m.mu.Unlock()

	log.Warn().Err(cause).Msg("uplink_connection_lost")
	if m.hooks.OnDisconnected != nil {
		m.hooks.OnDisconnected(cause)
	}
	fire()
}

// scheduleRetryLocked arms the backoff timer or, once the budget is spent,
// moves to unavailable. The returned func fires the matching hook.
func (m *Manager) scheduleRetryLocked(ctx context.Context, gen uint64) func() {
	if m.attempt >= m.cfg.RetryMax {
		return m.markUnavailableLocked()
	}
	delay := Backoff(m.attempt, m.cfg.RetryBase(), m.cfg.RetryCap)
	m.attempt++
	attempt := m.attempt
	m.state = StateBackingOff
	m.timer = time.AfterFunc(delay, func() { m.retry(ctx, gen) })
	metricRetryTotal.Add(1)
	return func() {
		log.Info().Int("attempt", attempt).Dur("delay", delay).Msg("uplink_retry_scheduled")
		if m.hooks.OnRetryScheduled != nil {
			m.hooks.OnRetryScheduled(attempt, delay)
		}
	}
}

func (m *Manager) markUnavailableLocked() func() {
	m.state = StateUnavailable
	if m.unavailableFired {
		return func() {}
	}
	m.unavailableFired = true
	metricUnavailableTotal.Add(1)
	return func() {
		log.Warn().Msg("uplink_unavailable")
		if m.hooks.OnUnavailable != nil {
			m.hooks.OnUnavailable()
		}
	}
}

func (m *Manager) retry(ctx context.Context, gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != StateBackingOff {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	if ctx.Err() != nil {
		m.state = StateDisconnected
		m.mu.Unlock()
		return
	}
	m.state = StateConnecting
	m.mu.Unlock()
	m.dial(ctx, gen)
}

func (m *Manager) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.gen && m.state == StateConnected
}

func (m *Manager) closeConnLocked() {
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.send = nil
}
