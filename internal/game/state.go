package game

import "time"

type GameType string

const (
	TypeBlackjack GameType = "blackjack"
	TypeRoulette  GameType = "roulette"
	TypeBaccarat  GameType = "baccarat"
	TypeWheel     GameType = "wheel"
)

var GameTypes = []GameType{TypeBlackjack, TypeRoulette, TypeBaccarat, TypeWheel}

func (t GameType) Valid() bool {
	switch t {
	case TypeBlackjack, TypeRoulette, TypeBaccarat, TypeWheel:
		return true
	}
	return false
}

type Status string

const (
	StatusPreparing   Status = "preparing"
	StatusActive      Status = "active"
	StatusBreak       Status = "break"
	StatusMaintenance Status = "maintenance"
	StatusOffline     Status = "offline"
)

type Category string

const (
	CategoryFeatured Category = "featured"
	CategoryVIP      Category = "vip"
	CategoryPopular  Category = "popular"
	CategoryClassic  Category = "classic"
)

type StreamQuality string

const (
	QualityAuto   StreamQuality = "auto"
	QualityLow    StreamQuality = "low"
	QualityMedium StreamQuality = "medium"
	QualityHigh   StreamQuality = "high"
	QualityHD     StreamQuality = "hd"
)

func (q StreamQuality) Valid() bool {
	switch q {
	case QualityAuto, QualityLow, QualityMedium, QualityHigh, QualityHD:
		return true
	}
	return false
}

const (
	// MaxGameHistory bounds Game.History; the oldest results are evicted first.
	MaxGameHistory = 50
	// MaxChatHistory bounds each game's chat log.
	MaxChatHistory = 200
	// MaxChatMessageRunes limits a single outgoing chat line.
	MaxChatMessageRunes = 500
)

type TableLayout struct {
	Layout string `json:"layout"`
	Seats  int    `json:"seats"`
	Theme  string `json:"theme,omitempty"`
}

type StreamInfo struct {
	Quality  StreamQuality `json:"quality"`
	CameraID string        `json:"camera_id"`
	Cameras  []string      `json:"cameras"`
}

type GameStatistics struct {
	RoundsPlayed int64      `json:"rounds_played"`
	TotalWagered int64      `json:"total_wagered"`
	BiggestWin   int64      `json:"biggest_win"`
	LastResultAt *time.Time `json:"last_result_at,omitempty"`
}

type Game struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Type            GameType       `json:"type"`
	Status          Status         `json:"status"`
	Category        Category       `json:"category"`
	IsVIP           bool           `json:"is_vip"`
	DealerID        string         `json:"dealer_id"`
	Table           TableLayout    `json:"table"`
	Players         []Player       `json:"players"`
	MinPlayers      int            `json:"min_players"`
	MaxPlayers      int            `json:"max_players"`
	MinBet          int64          `json:"min_bet"`
	MaxBet          int64          `json:"max_bet"`
	History         []GameResult   `json:"game_history"`
	CurrentRound    *Round         `json:"current_round,omitempty"`
	LastRoundNumber int64          `json:"last_round_number"`
	Statistics      GameStatistics `json:"statistics"`
	Stream          StreamInfo     `json:"stream"`
}

type Phase string

const (
	PhaseBetting     Phase = "betting"
	PhaseDealing     Phase = "dealing"
	PhasePlayerTurns Phase = "player_turns"
	PhaseDealerTurn  Phase = "dealer_turn"
	PhaseSettlement  Phase = "settlement"
	PhaseNoMoreBets  Phase = "no_more_bets"
	PhaseSpinning    Phase = "spinning"
	PhaseDrawing     Phase = "drawing"
	PhaseResult      Phase = "result"
)

type Round struct {
	ID          string      `json:"id"`
	GameID      string      `json:"game_id"`
	Number      int64       `json:"round_number"`
	Phase       Phase       `json:"phase"`
	Bets        []Bet       `json:"bets"`
	Results     *GameResult `json:"results,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	PhaseEndsAt *time.Time  `json:"phase_ends_at,omitempty"`
}

type BetStatus string

const (
	BetPending BetStatus = "pending"
	BetWon     BetStatus = "won"
	BetLost    BetStatus = "lost"
	BetVoid    BetStatus = "void"
)

func (s BetStatus) Terminal() bool {
	return s == BetWon || s == BetLost || s == BetVoid
}

type Bet struct {
	ID       string         `json:"id"`
	RoundID  string         `json:"round_id"`
	PlayerID string         `json:"player_id"`
	Amount   int64          `json:"amount"`
	Type     string         `json:"type"`
	Options  map[string]any `json:"options,omitempty"`
	Status   BetStatus      `json:"status"`
	Payout   *int64         `json:"payout,omitempty"`
	PlacedAt time.Time      `json:"placed_at"`
}

type Player struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Seat        int       `json:"seat"`
	Chips       int64     `json:"chips"`
	CurrentBet  int64     `json:"current_bet"`
	IsActive    bool      `json:"is_active"`
	IsConnected bool      `json:"is_connected"`
	TimeToAct   *int      `json:"time_to_act,omitempty"`
	IsVIP       bool      `json:"is_vip"`
	JoinedAt    time.Time `json:"joined_at"`
}

type Shift struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s Shift) Covers(t time.Time) bool {
	if s.Start.IsZero() && s.End.IsZero() {
		return true
	}
	return !t.Before(s.Start) && t.Before(s.End)
}

type DealerStats struct {
	RoundsDealt   int64   `json:"rounds_dealt"`
	TipsReceived  int64   `json:"tips_received"`
	AverageRating float64 `json:"average_rating"`
}

type Dealer struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Language        string      `json:"language"`
	Rating          float64     `json:"rating"`
	ExperienceYears int         `json:"experience_years"`
	Specialties     []GameType  `json:"specialties"`
	IsOnline        bool        `json:"is_online"`
	Shift           Shift       `json:"shift"`
	Stats           DealerStats `json:"stats"`
}

type TournamentStatus string

const (
	TournamentUpcoming     TournamentStatus = "upcoming"
	TournamentRegistration TournamentStatus = "registration"
	TournamentActive       TournamentStatus = "active"
	TournamentFinished     TournamentStatus = "finished"
)

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

type Tournament struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	GameType            GameType           `json:"game_type"`
	Status              TournamentStatus   `json:"status"`
	StartsAt            time.Time          `json:"starts_at"`
	EndsAt              time.Time          `json:"ends_at"`
	BuyIn               int64              `json:"buy_in"`
	PrizePool           int64              `json:"prize_pool"`
	MaxParticipants     int                `json:"max_participants"`
	CurrentParticipants int                `json:"current_participants"`
	Rounds              int                `json:"rounds"`
	Leaderboard         []LeaderboardEntry `json:"leaderboard"`
}

type ChatType string

const (
	ChatPlayer    ChatType = "player"
	ChatDealer    ChatType = "dealer"
	ChatSystem    ChatType = "system"
	ChatModerator ChatType = "moderator"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	SenderID  string    `json:"sender_id"`
	Username  string    `json:"username"`
	Text      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Type      ChatType  `json:"type"`
	PrivateTo string    `json:"private_to,omitempty"`
}

type Promotion struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	GameTypes    []GameType `json:"game_types,omitempty"`
	BonusPercent int        `json:"bonus_percent"`
	ValidFrom    time.Time  `json:"valid_from"`
	ValidUntil   time.Time  `json:"valid_until"`
}

func (p Promotion) ActiveAt(t time.Time) bool {
	return !t.Before(p.ValidFrom) && (p.ValidUntil.IsZero() || t.Before(p.ValidUntil))
}
