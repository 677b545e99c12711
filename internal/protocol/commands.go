package protocol

import "casino-livesync/internal/game"

const (
	CmdJoinGame           Kind = "join_game"
	CmdLeaveGame          Kind = "leave_game"
	CmdPlaceBet           Kind = "place_bet"
	CmdChatMessage        Kind = "chat_message"
	CmdSwitchCamera       Kind = "switch_camera"
	CmdChangeQuality      Kind = "change_quality"
	CmdTipDealer          Kind = "tip_dealer"
	CmdRegisterTournament Kind = "register_tournament"
)

var CommandKinds = []Kind{
	CmdJoinGame, CmdLeaveGame, CmdPlaceBet, CmdChatMessage, CmdSwitchCamera,
	CmdChangeQuality, CmdTipDealer, CmdRegisterTournament,
}

// Command is the closed set of client frames sent to the authority.
type Command interface {
	Kind() Kind
	isCommand()
}

type JoinGame struct {
	GameID     string `json:"game_id" jsonschema:"required"`
	SeatNumber *int   `json:"seat_number,omitempty"`
}

type LeaveGame struct {
	GameID string `json:"game_id" jsonschema:"required"`
}

type PlaceBet struct {
	GameID string   `json:"game_id" jsonschema:"required"`
	Bet    game.Bet `json:"bet" jsonschema:"required"`
}

type SendChat struct {
	GameID    string `json:"game_id" jsonschema:"required"`
	Message   string `json:"message" jsonschema:"required,maxLength=500"`
	Username  string `json:"username" jsonschema:"required"`
	PrivateTo string `json:"private_to,omitempty"`
}

type SwitchCamera struct {
	GameID   string `json:"game_id" jsonschema:"required"`
	CameraID string `json:"camera_id" jsonschema:"required"`
}

type ChangeQuality struct {
	GameID  string             `json:"game_id" jsonschema:"required"`
	Quality game.StreamQuality `json:"quality" jsonschema:"required,enum=auto,enum=low,enum=medium,enum=high,enum=hd"`
}

type TipDealer struct {
	GameID string `json:"game_id" jsonschema:"required"`
	Amount int64  `json:"amount" jsonschema:"required,minimum=1"`
}

type RegisterTournament struct {
	TournamentID string `json:"tournament_id" jsonschema:"required"`
}

func (JoinGame) Kind() Kind           { return CmdJoinGame }
func (LeaveGame) Kind() Kind          { return CmdLeaveGame }
func (PlaceBet) Kind() Kind           { return CmdPlaceBet }
func (SendChat) Kind() Kind           { return CmdChatMessage }
func (SwitchCamera) Kind() Kind       { return CmdSwitchCamera }
func (ChangeQuality) Kind() Kind      { return CmdChangeQuality }
func (TipDealer) Kind() Kind          { return CmdTipDealer }
func (RegisterTournament) Kind() Kind { return CmdRegisterTournament }

func (JoinGame) isCommand()           {}
func (LeaveGame) isCommand()          {}
func (PlaceBet) isCommand()           {}
func (SendChat) isCommand()           {}
func (SwitchCamera) isCommand()       {}
func (ChangeQuality) isCommand()      {}
func (TipDealer) isCommand()          {}
func (RegisterTournament) isCommand() {}
