package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"casino-livesync/internal/game"
)

var (
	ErrMalformedFrame     = errors.New("malformed_frame")
	ErrUnknownFrame       = errors.New("unknown_frame")
	ErrUnsupportedVersion = errors.New("unsupported_version")
)

type header struct {
	V    int  `json:"v"`
	Type Kind `json:"type"`
}

func readHeader(data []byte) (header, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if h.Type == "" {
		return h, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	}
	if h.V == 0 {
		h.V = Version
	}
	if h.V != Version {
		return h, fmt.Errorf("%w: v=%d", ErrUnsupportedVersion, h.V)
	}
	return h, nil
}

// PeekKind returns the frame's type without decoding its payload.
func PeekKind(data []byte) (Kind, error) {
	h, err := readHeader(data)
	return h.Type, err
}

// Decode parses one authority frame. Unknown kinds return ErrUnknownFrame
// and structurally invalid frames ErrMalformedFrame; callers drop both.
func Decode(data []byte) (Event, error) {
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	var ev Event
	switch h.Type {
	case KindGameUpdate:
		ev, err = decodeAs[GameUpdate](data)
	case KindDealerUpdate:
		ev, err = decodeAs[DealerUpdate](data)
	case KindTournamentUpdate:
		ev, err = decodeAs[TournamentUpdate](data)
	case KindRoundStart:
		ev, err = decodeAs[RoundStart](data)
	case KindRoundPhase:
		ev, err = decodeAs[RoundPhase](data)
	case KindRoundEnd:
		ev, err = decodeAs[RoundEnd](data)
	case KindBetPlaced:
		ev, err = decodeAs[BetPlaced](data)
	case KindChatMessage:
		ev, err = decodeAs[ChatMessage](data)
	case KindPlayerJoined:
		ev, err = decodeAs[PlayerJoined](data)
	case KindPlayerLeft:
		ev, err = decodeAs[PlayerLeft](data)
	case KindStreamQualityChanged:
		ev, err = decodeAs[StreamQualityChanged](data)
	case KindPromotionUpdate:
		ev, err = decodeAs[PromotionUpdate](data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFrame, h.Type)
	}
	if err != nil {
		return nil, err
	}
	ev = normalizeEvent(ev)
	if err := validateEvent(ev); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFrame, h.Type, err)
	}
	return ev, nil
}

// DecodeCommand parses one client frame; used by the authority side.
func DecodeCommand(data []byte) (Command, error) {
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	var cmd Command
	switch h.Type {
	case CmdJoinGame:
		cmd, err = decodeAs[JoinGame](data)
	case CmdLeaveGame:
		cmd, err = decodeAs[LeaveGame](data)
	case CmdPlaceBet:
		cmd, err = decodeAs[PlaceBet](data)
	case CmdChatMessage:
		cmd, err = decodeAs[SendChat](data)
	case CmdSwitchCamera:
		cmd, err = decodeAs[SwitchCamera](data)
	case CmdChangeQuality:
		cmd, err = decodeAs[ChangeQuality](data)
	case CmdTipDealer:
		cmd, err = decodeAs[TipDealer](data)
	case CmdRegisterTournament:
		cmd, err = decodeAs[RegisterTournament](data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFrame, h.Type)
	}
	if err != nil {
		return nil, err
	}
	if err := validateCommand(cmd); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFrame, h.Type, err)
	}
	return cmd, nil
}

func decodeAs[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return v, nil
}

// Encode renders an event as a versioned frame.
func Encode(ev Event) ([]byte, error) {
	return encodeFrame(ev.Kind(), ev)
}

func EncodeCommand(cmd Command) ([]byte, error) {
	return encodeFrame(cmd.Kind(), cmd)
}

func encodeFrame(kind Kind, payload any) ([]byte, error) {
	head, err := json.Marshal(header{V: Version, Type: kind})
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) <= 2 {
		return head, nil
	}
	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}

// normalizeEvent fills ids and statuses the authority may leave implicit.
func normalizeEvent(ev Event) Event {
	switch e := ev.(type) {
	case GameUpdate:
		if e.Game.Status == "" {
			e.Game.Status = game.StatusPreparing
		}
		return e
	case TournamentUpdate:
		if e.Tournament.Status == "" {
			e.Tournament.Status = game.TournamentUpcoming
		}
		return e
	case RoundStart:
		if e.Round.GameID == "" {
			e.Round.GameID = e.GameID
		}
		return e
	case BetPlaced:
		if e.Bet.Status == "" {
			e.Bet.Status = game.BetPending
		}
		return e
	case ChatMessage:
		if e.Message.Type == "" {
			e.Message.Type = game.ChatPlayer
		}
		return e
	}
	return ev
}

func validateEvent(ev Event) error {
	switch e := ev.(type) {
	case GameUpdate:
		if e.Game.ID == "" {
			return errors.New("game.id required")
		}
		if !e.Game.Type.Valid() {
			return fmt.Errorf("game.type %q invalid", e.Game.Type)
		}
	case DealerUpdate:
		if e.Dealer.ID == "" {
			return errors.New("dealer.id required")
		}
	case TournamentUpdate:
		if e.Tournament.ID == "" {
			return errors.New("tournament.id required")
		}
	case RoundStart:
		if e.GameID == "" || e.Round.ID == "" {
			return errors.New("game_id and round.id required")
		}
		if e.Round.Number <= 0 {
			return errors.New("round.round_number must be positive")
		}
		if e.Round.GameID != e.GameID {
			return errors.New("round.game_id mismatch")
		}
	case RoundPhase:
		if e.GameID == "" || e.RoundID == "" || e.Phase == "" {
			return errors.New("game_id, round_id and phase required")
		}
	case RoundEnd:
		if e.GameID == "" || e.Result.RoundID == "" {
			return errors.New("game_id and result.round_id required")
		}
	case BetPlaced:
		if e.GameID == "" || e.Bet.ID == "" {
			return errors.New("game_id and bet.id required")
		}
		if e.Bet.Amount <= 0 {
			return errors.New("bet.amount must be positive")
		}
	case ChatMessage:
		if e.Message.ID == "" || e.Message.GameID == "" {
			return errors.New("message.id and message.game_id required")
		}
	case PlayerJoined:
		if e.GameID == "" || e.Player.ID == "" {
			return errors.New("game_id and player.id required")
		}
		if e.Player.Seat < 0 {
			return errors.New("player.seat must not be negative")
		}
	case PlayerLeft:
		if e.GameID == "" || e.PlayerID == "" {
			return errors.New("game_id and player_id required")
		}
	case StreamQualityChanged:
		if e.GameID == "" || !e.Quality.Valid() {
			return errors.New("game_id and valid quality required")
		}
	case PromotionUpdate:
	}
	return nil
}

func validateCommand(cmd Command) error {
	switch c := cmd.(type) {
	case JoinGame:
		if c.GameID == "" {
			return errors.New("game_id required")
		}
	case LeaveGame:
		if c.GameID == "" {
			return errors.New("game_id required")
		}
	case PlaceBet:
		if c.GameID == "" || c.Bet.ID == "" || c.Bet.Amount <= 0 {
			return errors.New("game_id and positive bet required")
		}
	case SendChat:
		if c.GameID == "" || c.Message == "" {
			return errors.New("game_id and message required")
		}
	case SwitchCamera:
		if c.GameID == "" || c.CameraID == "" {
			return errors.New("game_id and camera_id required")
		}
	case ChangeQuality:
		if c.GameID == "" || !c.Quality.Valid() {
			return errors.New("game_id and valid quality required")
		}
	case TipDealer:
		if c.GameID == "" || c.Amount <= 0 {
			return errors.New("game_id and positive amount required")
		}
	case RegisterTournament:
		if c.TournamentID == "" {
			return errors.New("tournament_id required")
		}
	}
	return nil
}
