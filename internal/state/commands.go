package state

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"casino-livesync/internal/game"
	"casino-livesync/internal/ids"
	"casino-livesync/internal/protocol"
)

// Actor is the player a command is issued for.
type Actor struct {
	ID       string
	Username string
	Chips    int64
	VIP      bool
}

// Resolve validates cmd against the current store contents and returns the
// events that apply it. A nil slice with a nil error means the command is
// valid but has no store effect (switch_camera, or joining a table the actor
// already sits at).
func Resolve(s *Store, actor Actor, cmd protocol.Command, now time.Time) ([]protocol.Event, error) {
	switch c := cmd.(type) {
	case protocol.JoinGame:
		return resolveJoin(s, actor, c, now)
	case protocol.LeaveGame:
		g, err := findGame(s, c.GameID)
		if err != nil {
			return nil, err
		}
		if g.PlayerIndex(actor.ID) < 0 {
			return nil, game.ErrNotSeated
		}
		return []protocol.Event{protocol.PlayerLeft{GameID: g.ID, PlayerID: actor.ID}}, nil
	case protocol.PlaceBet:
		return resolveBet(s, actor, c, now)
	case protocol.SendChat:
		return resolveChat(s, actor, c, now)
	case protocol.SwitchCamera:
		g, err := findGame(s, c.GameID)
		if err != nil {
			return nil, err
		}
		if !g.HasCamera(c.CameraID) {
			return nil, fmt.Errorf("%w: camera %q not offered", game.ErrInvalidRequest, c.CameraID)
		}
		return nil, nil
	case protocol.ChangeQuality:
		g, err := findGame(s, c.GameID)
		if err != nil {
			return nil, err
		}
		if !c.Quality.Valid() {
			return nil, fmt.Errorf("%w: quality %q", game.ErrInvalidRequest, c.Quality)
		}
		return []protocol.Event{protocol.StreamQualityChanged{GameID: g.ID, Quality: c.Quality}}, nil
	case protocol.TipDealer:
		return resolveTip(s, actor, c, now)
	case protocol.RegisterTournament:
		t, ok := s.Tournament(c.TournamentID)
		if !ok {
			return nil, game.NotFound("tournament", c.TournamentID)
		}
		if t.Status != game.TournamentRegistration {
			return nil, game.ErrRegistrationClosed
		}
		if t.Full() {
			return nil, game.ErrTournamentFull
		}
		t.CurrentParticipants++
		t.PrizePool += t.BuyIn
		return []protocol.Event{protocol.TournamentUpdate{Tournament: *t}}, nil
	}
	return nil, fmt.Errorf("%w: command %T", game.ErrInvalidRequest, cmd)
}

func findGame(s *Store, id string) (*game.Game, error) {
	g, ok := s.Game(id)
	if !ok {
		return nil, game.NotFound("game", id)
	}
	return g, nil
}

func resolveJoin(s *Store, actor Actor, c protocol.JoinGame, now time.Time) ([]protocol.Event, error) {
	g, err := findGame(s, c.GameID)
	if err != nil {
		return nil, err
	}
	if g.PlayerIndex(actor.ID) >= 0 {
		return nil, nil
	}
	if g.Full() {
		return nil, game.ErrTableFull
	}
	seat := 0
	if c.SeatNumber != nil {
		seat = *c.SeatNumber
		if seat < 1 || seat > g.Seats() {
			return nil, fmt.Errorf("%w: seat %d", game.ErrInvalidRequest, seat)
		}
		if g.SeatHolder(seat) != "" {
			return nil, game.ErrSeatTaken
		}
	}
	p := game.Player{
		ID:          actor.ID,
		Username:    actor.Username,
		Seat:        seat,
		Chips:       actor.Chips,
		IsActive:    true,
		IsConnected: true,
		IsVIP:       actor.VIP,
		JoinedAt:    now,
	}
	return []protocol.Event{protocol.PlayerJoined{GameID: g.ID, Player: p}}, nil
}

func resolveBet(s *Store, actor Actor, c protocol.PlaceBet, now time.Time) ([]protocol.Event, error) {
	g, err := findGame(s, c.GameID)
	if err != nil {
		return nil, err
	}
	bet := c.Bet
	if bet.Amount < g.MinBet || (g.MaxBet > 0 && bet.Amount > g.MaxBet) || bet.Amount <= 0 {
		return nil, game.ErrBetOutOfRange
	}
	if bet.ID == "" {
		bet.ID = ids.Prefixed("bet")
	}
	if bet.PlayerID == "" {
		bet.PlayerID = actor.ID
	}
	if bet.PlacedAt.IsZero() {
		bet.PlacedAt = now
	}
	if bet.Type == "" {
		bet.Type = "main"
	}
	bet.Status = game.BetPending
	bet.Payout = nil
	if g.CurrentRound != nil {
		bet.RoundID = g.CurrentRound.ID
	}
	return []protocol.Event{protocol.BetPlaced{GameID: g.ID, Bet: bet}}, nil
}

func resolveChat(s *Store, actor Actor, c protocol.SendChat, now time.Time) ([]protocol.Event, error) {
	g, err := findGame(s, c.GameID)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(c.Message)
	if text == "" || utf8.RuneCountInString(text) > game.MaxChatMessageRunes {
		return nil, fmt.Errorf("%w: message length", game.ErrInvalidRequest)
	}
	username := c.Username
	if username == "" {
		username = actor.Username
	}
	msg := game.ChatMessage{
		ID:        ids.Prefixed("chat"),
		GameID:    g.ID,
		SenderID:  actor.ID,
		Username:  username,
		Text:      text,
		Timestamp: now,
		Type:      game.ChatPlayer,
		PrivateTo: c.PrivateTo,
	}
	return []protocol.Event{protocol.ChatMessage{Message: msg}}, nil
}

func resolveTip(s *Store, actor Actor, c protocol.TipDealer, now time.Time) ([]protocol.Event, error) {
	g, err := findGame(s, c.GameID)
	if err != nil {
		return nil, err
	}
	if c.Amount <= 0 {
		return nil, fmt.Errorf("%w: tip amount", game.ErrInvalidRequest)
	}
	d, ok := s.Dealer(g.DealerID)
	if !ok {
		return nil, game.NotFound("dealer", g.DealerID)
	}
	d.Stats.TipsReceived += c.Amount
	note := game.ChatMessage{
		ID:        ids.Prefixed("chat"),
		GameID:    g.ID,
		SenderID:  "system",
		Username:  "system",
		Text:      fmt.Sprintf("%s tipped %s %d", actor.Username, d.Name, c.Amount),
		Timestamp: now,
		Type:      game.ChatSystem,
	}
	return []protocol.Event{protocol.DealerUpdate{Dealer: *d}, protocol.ChatMessage{Message: note}}, nil
}
