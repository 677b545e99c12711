package simulation

import (
	"math/rand"

	"casino-livesync/internal/game"
)

type wheelSegment struct {
	Label      string
	Multiplier int
	Weight     int
}

var wheelSegments = []wheelSegment{
	{"1", 1, 24},
	{"2", 2, 15},
	{"5", 5, 7},
	{"10", 10, 4},
	{"20", 20, 2},
	{"40", 40, 1},
}

// resolveRound produces a synthetic outcome for the game type and settles
// every bet against it.
func resolveRound(t game.GameType, bets []game.Bet, rnd *rand.Rand) (game.Outcome, []game.Settlement) {
	switch t {
	case game.TypeBlackjack:
		return resolveBlackjack(bets, rnd)
	case game.TypeRoulette:
		return resolveRoulette(bets, rnd)
	case game.TypeBaccarat:
		return resolveBaccarat(bets, rnd)
	case game.TypeWheel:
		return resolveWheel(bets, rnd)
	}
	return game.Outcome{}, nil
}

type shoe struct {
	deck *game.Deck
	rnd  *rand.Rand
}

func newShoe(rnd *rand.Rand) *shoe {
	d := game.NewDeck()
	d.Shuffle(rnd)
	return &shoe{deck: d, rnd: rnd}
}

func (s *shoe) draw() game.Card {
	if s.deck.Len() == 0 {
		s.deck = game.NewDeck()
		s.deck.Shuffle(s.rnd)
	}
	return s.deck.Deal()
}

func resolveBlackjack(bets []game.Bet, rnd *rand.Rand) (game.Outcome, []game.Settlement) {
	s := newShoe(rnd)
	hands := map[string][]game.Card{}
	var order []string
	for _, b := range bets {
		if _, ok := hands[b.PlayerID]; ok {
			continue
		}
		order = append(order, b.PlayerID)
		hands[b.PlayerID] = []game.Card{s.draw(), s.draw()}
	}
	dealer := []game.Card{s.draw(), s.draw()}
	for _, id := range order {
		h := hands[id]
		for game.HandTotal(h) < 17 {
			h = append(h, s.draw())
		}
		hands[id] = h
	}
	for game.HandTotal(dealer) < 17 {
		dealer = append(dealer, s.draw())
	}

	dealerTotal := game.HandTotal(dealer)
	out := &game.BlackjackOutcome{
		Dealer:  game.BlackjackHand{Cards: game.CardStrings(dealer), Total: dealerTotal, Bust: dealerTotal > 21},
		Players: make([]game.BlackjackHand, 0, len(order)),
	}
	for _, id := range order {
		total := game.HandTotal(hands[id])
		out.Players = append(out.Players, game.BlackjackHand{PlayerID: id, Cards: game.CardStrings(hands[id]), Total: total, Bust: total > 21})
	}

	settlements := make([]game.Settlement, 0, len(bets))
	for _, b := range bets {
		total := game.HandTotal(hands[b.PlayerID])
		switch {
		case total > 21:
			settlements = append(settlements, lost(b))
		case dealerTotal > 21 || total > dealerTotal:
			settlements = append(settlements, won(b, 2))
		case total < dealerTotal:
			settlements = append(settlements, lost(b))
		default:
			settlements = append(settlements, game.Settlement{BetID: b.ID, Status: game.BetVoid})
		}
	}
	return game.Outcome{Blackjack: out}, settlements
}

func resolveRoulette(bets []game.Bet, rnd *rand.Rand) (game.Outcome, []game.Settlement) {
	n := rnd.Intn(37)
	color := game.RouletteColor(n)
	settlements := make([]game.Settlement, 0, len(bets))
	for _, b := range bets {
		var hit bool
		factor := int64(2)
		switch b.Type {
		case "red", "black":
			hit = b.Type == color
		case "even":
			hit = n != 0 && n%2 == 0
		case "odd":
			hit = n%2 == 1
		case "straight":
			pick, ok := optionInt(b.Options, "number")
			hit = ok && pick == n
			factor = 36
		}
		if hit {
			settlements = append(settlements, won(b, factor))
		} else {
			settlements = append(settlements, lost(b))
		}
	}
	return game.Outcome{Roulette: &game.RouletteOutcome{Number: n, Color: color}}, settlements
}

func resolveBaccarat(bets []game.Bet, rnd *rand.Rand) (game.Outcome, []game.Settlement) {
	s := newShoe(rnd)
	hand := func() int {
		score := (s.draw().BaccaratValue() + s.draw().BaccaratValue()) % 10
		if score <= 5 {
			score = (score + s.draw().BaccaratValue()) % 10
		}
		return score
	}
	player := hand()
	banker := hand()
	winner := "tie"
	switch {
	case player > banker:
		winner = "player"
	case banker > player:
		winner = "banker"
	}
	settlements := make([]game.Settlement, 0, len(bets))
	for _, b := range bets {
		switch {
		case b.Type == winner && winner == "tie":
			settlements = append(settlements, won(b, 9))
		case b.Type == winner:
			settlements = append(settlements, won(b, 2))
		case winner == "tie":
			settlements = append(settlements, game.Settlement{BetID: b.ID, Status: game.BetVoid})
		default:
			settlements = append(settlements, lost(b))
		}
	}
	return game.Outcome{Baccarat: &game.BaccaratOutcome{PlayerScore: player, BankerScore: banker, Winner: winner}}, settlements
}

func resolveWheel(bets []game.Bet, rnd *rand.Rand) (game.Outcome, []game.Settlement) {
	total := 0
	for _, seg := range wheelSegments {
		total += seg.Weight
	}
	pick := rnd.Intn(total)
	seg := wheelSegments[len(wheelSegments)-1]
	for _, candidate := range wheelSegments {
		if pick < candidate.Weight {
			seg = candidate
			break
		}
		pick -= candidate.Weight
	}
	settlements := make([]game.Settlement, 0, len(bets))
	for _, b := range bets {
		if b.Type == seg.Label {
			settlements = append(settlements, won(b, int64(seg.Multiplier+1)))
		} else {
			settlements = append(settlements, lost(b))
		}
	}
	return game.Outcome{Wheel: &game.WheelOutcome{Segment: seg.Label, Multiplier: seg.Multiplier}}, settlements
}

func won(b game.Bet, factor int64) game.Settlement {
	p := b.Amount * factor
	return game.Settlement{BetID: b.ID, Status: game.BetWon, Payout: &p}
}

func lost(b game.Bet) game.Settlement {
	zero := int64(0)
	return game.Settlement{BetID: b.ID, Status: game.BetLost, Payout: &zero}
}

func optionInt(opts map[string]any, key string) (int, bool) {
	switch v := opts[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
