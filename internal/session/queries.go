package session

import (
	"sort"

	"casino-livesync/internal/game"
	"casino-livesync/internal/state"
	"casino-livesync/internal/uplink"
)

// Filter narrows GetLiveGames. Zero fields match everything; the bet range
// matches games whose own range overlaps it.
type Filter struct {
	Type     game.GameType
	Status   game.Status
	VIP      *bool
	Category game.Category
	MinBet   int64
	MaxBet   int64
}

func (f Filter) match(g *game.Game) bool {
	if f.Type != "" && g.Type != f.Type {
		return false
	}
	if f.Status != "" && g.Status != f.Status {
		return false
	}
	if f.VIP != nil && g.IsVIP != *f.VIP {
		return false
	}
	if f.Category != "" && g.Category != f.Category {
		return false
	}
	if f.MinBet > 0 && g.MaxBet > 0 && g.MaxBet < f.MinBet {
		return false
	}
	if f.MaxBet > 0 && g.MinBet > f.MaxBet {
		return false
	}
	return true
}

func priority(g *game.Game) int {
	switch {
	case g.Category == game.CategoryFeatured:
		return 0
	case g.Category == game.CategoryVIP || g.IsVIP:
		return 1
	case g.Category == game.CategoryPopular:
		return 2
	default:
		return 3
	}
}

// GetLiveGames returns matching games, featured first, then vip, then
// popular, each group by player count descending.
func (s *Session) GetLiveGames(f Filter) []*game.Game {
	var all []*game.Game
	if f.Type != "" {
		all = s.store.GamesByType(f.Type)
	} else {
		all = s.store.Games()
	}
	out := make([]*game.Game, 0, len(all))
	for _, g := range all {
		if f.match(g) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := priority(out[i]), priority(out[j])
		if pi != pj {
			return pi < pj
		}
		if len(out[i].Players) != len(out[j].Players) {
			return len(out[i].Players) > len(out[j].Players)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Session) GetGame(id string) (*game.Game, error) {
	g, ok := s.store.Game(id)
	if !ok {
		return nil, game.NotFound("game", id)
	}
	return g, nil
}

func (s *Session) GetDealer(id string) (*game.Dealer, error) {
	d, ok := s.store.Dealer(id)
	if !ok {
		return nil, game.NotFound("dealer", id)
	}
	return d, nil
}

// GetChat returns up to limit of the newest messages, oldest first. A
// non-positive limit returns the whole history.
func (s *Session) GetChat(gameID string, limit int) ([]game.ChatMessage, error) {
	if _, ok := s.store.Game(gameID); !ok {
		return nil, game.NotFound("game", gameID)
	}
	msgs := s.store.Chat(gameID)
	if limit > 0 {
		msgs = game.TrimHead(msgs, limit)
	}
	if msgs == nil {
		msgs = []game.ChatMessage{}
	}
	return msgs, nil
}

func (s *Session) GetTournaments(statuses ...game.TournamentStatus) []*game.Tournament {
	return s.store.Tournaments(statuses...)
}

func (s *Session) GetPromotions() []game.Promotion {
	return s.store.Promotions()
}

type Status struct {
	Mode          Mode         `json:"mode"`
	Uplink        uplink.State `json:"uplink"`
	UplinkAttempt int          `json:"uplink_attempt"`
	SessionID     string       `json:"session_id"`
	PlayerID      string       `json:"player_id"`
	CurrentGame   string       `json:"current_game,omitempty"`
	CameraID      string       `json:"camera_id,omitempty"`
	Simulation    bool         `json:"simulation_running"`
	Store         state.Stats  `json:"store"`
}

func (s *Session) Status() Status {
	s.mu.RLock()
	st := Status{
		Mode:        s.mode,
		PlayerID:    s.actor.ID,
		CurrentGame: s.current,
		CameraID:    s.cameras[s.current],
	}
	s.mu.RUnlock()
	st.Uplink = s.link.State()
	st.UplinkAttempt = s.link.Attempt()
	st.SessionID = s.link.SessionID()
	st.Simulation = s.engine.Running()
	st.Store = s.store.Stats()
	return st
}

// CurrentGame is the game most recently joined, or "".
func (s *Session) CurrentGame() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Camera returns the camera selected for gameID, falling back to the
// game's default.
func (s *Session) Camera(gameID string) string {
	s.mu.RLock()
	cam := s.cameras[gameID]
	s.mu.RUnlock()
	if cam != "" {
		return cam
	}
	if g, ok := s.store.Game(gameID); ok {
		return g.Stream.CameraID
	}
	return ""
}
