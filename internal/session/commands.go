package session

import (
	"errors"

	"github.com/rs/zerolog/log"

	"casino-livesync/internal/game"
	"casino-livesync/internal/ids"
	"casino-livesync/internal/protocol"
	"casino-livesync/internal/state"
	"casino-livesync/internal/uplink"
)

// BetRequest is what a caller supplies; the session fills in the rest.
type BetRequest struct {
	Amount  int64          `json:"amount"`
	Type    string         `json:"type"`
	Options map[string]any `json:"options,omitempty"`
}

// execute validates cmd against the store, then forwards it when connected
// or applies its events locally. A command that cannot be delivered is
// applied locally and not retried later.
func (s *Session) execute(cmd protocol.Command) error {
	if s.Mode() == ModeClosed {
		return ErrClosed
	}
	events, err := state.Resolve(s.store, s.actor, cmd, s.now())
	if err != nil {
		metricCommandsRejected.Add(errorCode(err), 1)
		return err
	}
	metricCommands.Add(string(cmd.Kind()), 1)
	if s.link.State() == uplink.StateConnected {
		err := s.link.Send(cmd)
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Str("kind", string(cmd.Kind())).Msg("command_send_failed_applied_locally")
	}
	for _, ev := range events {
		s.dispatcher.Apply(ev)
	}
	return nil
}

func errorCode(err error) string {
	for _, sentinel := range []error{
		game.ErrNotFound, game.ErrTableFull, game.ErrSeatTaken, game.ErrTournamentFull,
		game.ErrRegistrationClosed, game.ErrBetOutOfRange, game.ErrNotSeated, game.ErrInvalidRequest,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal"
}

// JoinGame seats the local player and makes gameID the current game.
func (s *Session) JoinGame(gameID string, seat *int) error {
	if err := s.execute(protocol.JoinGame{GameID: gameID, SeatNumber: seat}); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = gameID
	s.mu.Unlock()
	return nil
}

func (s *Session) LeaveGame(gameID string) error {
	if err := s.execute(protocol.LeaveGame{GameID: gameID}); err != nil {
		return err
	}
	s.mu.Lock()
	if s.current == gameID {
		s.current = ""
	}
	s.mu.Unlock()
	return nil
}

// PlaceBet builds a pending bet for the current round. With no round in
// progress the bet is accepted and has no effect.
func (s *Session) PlaceBet(gameID string, req BetRequest) (game.Bet, error) {
	bet := game.Bet{
		ID:       ids.Prefixed("bet"),
		PlayerID: s.actor.ID,
		Amount:   req.Amount,
		Type:     req.Type,
		Options:  req.Options,
		Status:   game.BetPending,
		PlacedAt: s.now(),
	}
	if bet.Type == "" {
		bet.Type = "main"
	}
	if g, ok := s.store.Game(gameID); ok && g.CurrentRound != nil {
		bet.RoundID = g.CurrentRound.ID
	}
	if err := s.execute(protocol.PlaceBet{GameID: gameID, Bet: bet}); err != nil {
		return game.Bet{}, err
	}
	return bet, nil
}

func (s *Session) SendChatMessage(gameID, text, privateTo string) error {
	return s.execute(protocol.SendChat{
		GameID:    gameID,
		Message:   text,
		Username:  s.actor.Username,
		PrivateTo: privateTo,
	})
}

// SwitchCamera is view state: it is remembered per game and forwarded when
// connected, but never changes the store.
func (s *Session) SwitchCamera(gameID, cameraID string) error {
	if err := s.execute(protocol.SwitchCamera{GameID: gameID, CameraID: cameraID}); err != nil {
		return err
	}
	s.mu.Lock()
	s.cameras[gameID] = cameraID
	s.mu.Unlock()
	return nil
}

func (s *Session) ChangeStreamQuality(gameID string, quality game.StreamQuality) error {
	return s.execute(protocol.ChangeQuality{GameID: gameID, Quality: quality})
}

func (s *Session) TipDealer(gameID string, amount int64) error {
	return s.execute(protocol.TipDealer{GameID: gameID, Amount: amount})
}

func (s *Session) RegisterForTournament(tournamentID string) error {
	return s.execute(protocol.RegisterTournament{TournamentID: tournamentID})
}
