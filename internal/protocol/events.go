package protocol

import (
	"time"

	"casino-livesync/internal/game"
)

// Version is stamped into every frame as "v". Frames without it are read as
// version 1.
const Version = 1

type Kind string

const (
	KindGameUpdate           Kind = "game_update"
	KindDealerUpdate         Kind = "dealer_update"
	KindTournamentUpdate     Kind = "tournament_update"
	KindRoundStart           Kind = "round_start"
	KindRoundPhase           Kind = "round_phase"
	KindRoundEnd             Kind = "round_end"
	KindBetPlaced            Kind = "bet_placed"
	KindChatMessage          Kind = "chat_message"
	KindPlayerJoined         Kind = "player_joined"
	KindPlayerLeft           Kind = "player_left"
	KindStreamQualityChanged Kind = "stream_quality_changed"
	KindPromotionUpdate      Kind = "promotion_update"
)

// EventKinds lists every inbound kind in a stable order.
var EventKinds = []Kind{
	KindGameUpdate, KindDealerUpdate, KindTournamentUpdate, KindRoundStart, KindRoundPhase, KindRoundEnd,
	KindBetPlaced, KindChatMessage, KindPlayerJoined, KindPlayerLeft, KindStreamQualityChanged,
	KindPromotionUpdate,
}

// Event is the closed set of authority frames. Only types in this package
// implement it.
type Event interface {
	Kind() Kind
	isEvent()
}

type GameUpdate struct {
	Game game.Game `json:"game" jsonschema:"required"`
}

type DealerUpdate struct {
	Dealer game.Dealer `json:"dealer" jsonschema:"required"`
}

type TournamentUpdate struct {
	Tournament game.Tournament `json:"tournament" jsonschema:"required"`
}

type RoundStart struct {
	GameID string     `json:"game_id" jsonschema:"required"`
	Round  game.Round `json:"round" jsonschema:"required"`
}

// RoundPhase moves the current round forward along its phase sequence.
type RoundPhase struct {
	GameID      string     `json:"game_id" jsonschema:"required"`
	RoundID     string     `json:"round_id" jsonschema:"required"`
	Phase       game.Phase `json:"phase" jsonschema:"required"`
	PhaseEndsAt *time.Time `json:"phase_ends_at,omitempty"`
}

type RoundEnd struct {
	GameID string          `json:"game_id" jsonschema:"required"`
	Result game.GameResult `json:"result" jsonschema:"required"`
}

type BetPlaced struct {
	GameID string   `json:"game_id" jsonschema:"required"`
	Bet    game.Bet `json:"bet" jsonschema:"required"`
}

type ChatMessage struct {
	Message game.ChatMessage `json:"message" jsonschema:"required"`
}

type PlayerJoined struct {
	GameID string      `json:"game_id" jsonschema:"required"`
	Player game.Player `json:"player" jsonschema:"required"`
}

type PlayerLeft struct {
	GameID   string `json:"game_id" jsonschema:"required"`
	PlayerID string `json:"player_id" jsonschema:"required"`
}

type StreamQualityChanged struct {
	GameID  string             `json:"game_id" jsonschema:"required"`
	Quality game.StreamQuality `json:"quality" jsonschema:"required,enum=auto,enum=low,enum=medium,enum=high,enum=hd"`
}

type PromotionUpdate struct {
	Promotions []game.Promotion `json:"promotions" jsonschema:"required"`
}

func (GameUpdate) Kind() Kind           { return KindGameUpdate }
func (DealerUpdate) Kind() Kind         { return KindDealerUpdate }
func (TournamentUpdate) Kind() Kind     { return KindTournamentUpdate }
func (RoundStart) Kind() Kind           { return KindRoundStart }
func (RoundPhase) Kind() Kind           { return KindRoundPhase }
func (RoundEnd) Kind() Kind             { return KindRoundEnd }
func (BetPlaced) Kind() Kind            { return KindBetPlaced }
func (ChatMessage) Kind() Kind          { return KindChatMessage }
func (PlayerJoined) Kind() Kind         { return KindPlayerJoined }
func (PlayerLeft) Kind() Kind           { return KindPlayerLeft }
func (StreamQualityChanged) Kind() Kind { return KindStreamQualityChanged }
func (PromotionUpdate) Kind() Kind      { return KindPromotionUpdate }

func (GameUpdate) isEvent()           {}
func (DealerUpdate) isEvent()         {}
func (TournamentUpdate) isEvent()     {}
func (RoundStart) isEvent()           {}
func (RoundPhase) isEvent()           {}
func (RoundEnd) isEvent()             {}
func (BetPlaced) isEvent()            {}
func (ChatMessage) isEvent()          {}
func (PlayerJoined) isEvent()         {}
func (PlayerLeft) isEvent()           {}
func (StreamQualityChanged) isEvent() {}
func (PromotionUpdate) isEvent()      {}

// GameIDOf returns the game an event targets, or "" for events that are not
// scoped to a game.
func GameIDOf(ev Event) string {
	switch e := ev.(type) {
	case GameUpdate:
		return e.Game.ID
	case RoundStart:
		return e.GameID
	case RoundPhase:
		return e.GameID
	case RoundEnd:
		return e.GameID
	case BetPlaced:
		return e.GameID
	case ChatMessage:
		return e.Message.GameID
	case PlayerJoined:
		return e.GameID
	case PlayerLeft:
		return e.GameID
	case StreamQualityChanged:
		return e.GameID
	}
	return ""
}
