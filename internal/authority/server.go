package authority

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"casino-livesync/internal/auth"
	"casino-livesync/internal/catalog"
	"casino-livesync/internal/config"
	"casino-livesync/internal/protocol"
	"casino-livesync/internal/simulation"
	"casino-livesync/internal/state"
)

const (
	writeWait    = 10 * time.Second
	maxFrameSize = 1 << 20
)

type client struct {
	conn  *websocket.Conn
	send  chan []byte
	actor state.Actor
	once  sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Server is a development authority: it owns a simulated lobby, broadcasts
// every applied event to connected clients and applies their commands.
type Server struct {
	cfg        config.AuthorityConfig
	store      *state.Store
	dispatcher *state.Dispatcher
	engine     *simulation.Engine
	upgrader   websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]bool
}

func NewServer(cfg config.AuthorityConfig, simCfg config.SimulationConfig, source catalog.Source) (*Server, error) {
	if cfg.ClientBuffer <= 0 {
		cfg.ClientBuffer = 256
	}
	st, err := state.NewStore()
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		store:    st,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  map[*client]bool{},
	}
	s.dispatcher = state.NewDispatcher(st, s)
	s.engine = simulation.NewEngine(simCfg, st, s.dispatcher, source)
	return s, nil
}

func (s *Server) Store() *state.Store {
	return s.store
}

// Apply feeds an event through the authority's dispatcher; applied events are
// broadcast.
func (s *Server) Apply(ev protocol.Event) bool {
	return s.dispatcher.Apply(ev)
}

// Seed loads the catalog without starting the tick.
func (s *Server) Seed(ctx context.Context) error {
	return s.engine.Seed(ctx)
}

// Tick advances the lobby once.
func (s *Server) Tick() {
	s.engine.Tick()
}

// Start seeds the lobby and schedules the simulation tick.
func (s *Server) Start(ctx context.Context) error {
	return s.engine.Start(ctx)
}

func (s *Server) Stop() {
	s.engine.Stop()
	s.CloseAll(websocket.CloseGoingAway)
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws", s.HandleWS)
	return r
}

func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, s.cfg.ClientBuffer), actor: actor}
	s.register(c)
	log.Info().Str("player_id", actor.ID).Str("session_id", r.Header.Get("X-Client-Session")).Msg("authority_client_connected")

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) authenticate(r *http.Request) (state.Actor, bool) {
	session := r.Header.Get("X-Client-Session")
	if s.cfg.TokenSecret == "" {
		id := "anon"
		if session != "" {
			id = "anon-" + session
		}
		return state.Actor{ID: id, Username: id, Chips: s.cfg.PlayerChips}, true
	}
	raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return state.Actor{}, false
	}
	sub, err := auth.CheckToken(s.cfg.TokenSecret, raw)
	if err != nil {
		log.Warn().Err(err).Msg("authority_token_rejected")
		return state.Actor{}, false
	}
	return state.Actor{ID: sub, Username: sub, Chips: s.cfg.PlayerChips}, true
}

// register adds c and queues a full snapshot ahead of any later broadcast.
func (s *Server) register(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = true
	for _, ev := range s.snapshot() {
		data, err := protocol.Encode(ev)
		if err != nil {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

func (s *Server) snapshot() []protocol.Event {
	var out []protocol.Event
	for _, d := range s.store.Dealers() {
		out = append(out, protocol.DealerUpdate{Dealer: *d})
	}
	for _, g := range s.store.Games() {
		out = append(out, protocol.GameUpdate{Game: *g})
	}
	for _, t := range s.store.Tournaments() {
		out = append(out, protocol.TournamentUpdate{Tournament: *t})
	}
	out = append(out, protocol.PromotionUpdate{Promotions: s.store.Promotions()})
	return out
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
}

// Publish broadcasts an applied event. Clients that cannot keep up are
// disconnected rather than blocking the dispatcher.
func (s *Server) Publish(ev protocol.Event) {
	data, err := protocol.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("kind", string(ev.Kind())).Msg("authority_encode_failed")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("player_id", c.actor.ID).Msg("authority_client_too_slow")
			delete(s.clients, c)
			c.close()
		}
	}
}

// SendRaw writes data to every client as-is.
func (s *Server) SendRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// CloseAll sends a close frame with code to every client and drops them.
func (s *Server) CloseAll(code int) {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clients = map[*client]bool{}
	s.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, "")
	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.close()
	}
}

func (s *Server) readLoop(c *client) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		cmd, err := protocol.DecodeCommand(msg)
		if err != nil {
			log.Debug().Err(err).Str("player_id", c.actor.ID).Msg("authority_command_dropped")
			continue
		}
		s.handleCommand(c, cmd)
	}
}

func (s *Server) handleCommand(c *client, cmd protocol.Command) {
	actor := c.actor
	if chat, ok := cmd.(protocol.SendChat); ok && chat.Username != "" {
		actor.Username = chat.Username
	}
	events, err := state.Resolve(s.store, actor, cmd, time.Now())
	if err != nil {
		log.Info().Err(err).Str("player_id", actor.ID).Str("kind", string(cmd.Kind())).Msg("authority_command_rejected")
		return
	}
	for _, ev := range events {
		s.dispatcher.Apply(ev)
	}
}

func (s *Server) writeLoop(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			_ = c.conn.Close()
			return
		}
	}
}
