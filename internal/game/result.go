package game

import "time"

type BlackjackHand struct {
	PlayerID string   `json:"player_id,omitempty"`
	Cards    []string `json:"cards"`
	Total    int      `json:"total"`
	Bust     bool     `json:"bust,omitempty"`
}

type BlackjackOutcome struct {
	Dealer  BlackjackHand   `json:"dealer"`
	Players []BlackjackHand `json:"players"`
}

type RouletteOutcome struct {
	Number int    `json:"number"`
	Color  string `json:"color"`
}

type BaccaratOutcome struct {
	PlayerScore int    `json:"player_score"`
	BankerScore int    `json:"banker_score"`
	Winner      string `json:"winner"`
}

type WheelOutcome struct {
	Segment    string `json:"segment"`
	Multiplier int    `json:"multiplier"`
}

// Outcome carries exactly one type-specific result.
type Outcome struct {
	Blackjack *BlackjackOutcome `json:"blackjack,omitempty"`
	Roulette  *RouletteOutcome  `json:"roulette,omitempty"`
	Baccarat  *BaccaratOutcome  `json:"baccarat,omitempty"`
	Wheel     *WheelOutcome     `json:"wheel,omitempty"`
}

// Settlement is the authority's verdict on one bet of a resolved round.
type Settlement struct {
	BetID  string    `json:"bet_id"`
	Status BetStatus `json:"status"`
	Payout *int64    `json:"payout,omitempty"`
}

type GameResult struct {
	RoundID     string       `json:"round_id"`
	RoundNumber int64        `json:"round_number"`
	GameType    GameType     `json:"game_type"`
	Outcome     Outcome      `json:"outcome"`
	Settlements []Settlement `json:"settlements,omitempty"`
	Bets        []Bet        `json:"bets,omitempty"`
	ResolvedAt  time.Time    `json:"resolved_at"`
}

func RouletteColor(n int) string {
	if n == 0 {
		return "green"
	}
	switch n {
	case 1, 3, 5, 7, 9, 12, 14, 16, 18, 19, 21, 23, 25, 27, 30, 32, 34, 36:
		return "red"
	}
	return "black"
}
