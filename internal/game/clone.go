package game

import "maps"

// Clone returns a deep copy of g. Stored entities are treated as immutable,
// so every mutation starts from a clone.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	out := *g
	out.Players = append([]Player(nil), g.Players...)
	for i := range out.Players {
		out.Players[i].TimeToAct = cloneIntPtr(g.Players[i].TimeToAct)
	}
	out.History = make([]GameResult, len(g.History))
	for i := range g.History {
		out.History[i] = g.History[i].Clone()
	}
	out.CurrentRound = g.CurrentRound.Clone()
	out.Stream.Cameras = append([]string(nil), g.Stream.Cameras...)
	if g.Statistics.LastResultAt != nil {
		ts := *g.Statistics.LastResultAt
		out.Statistics.LastResultAt = &ts
	}
	return &out
}

func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	out := *r
	out.Bets = cloneBets(r.Bets)
	if r.Results != nil {
		res := r.Results.Clone()
		out.Results = &res
	}
	if r.PhaseEndsAt != nil {
		ts := *r.PhaseEndsAt
		out.PhaseEndsAt = &ts
	}
	return &out
}

func (r GameResult) Clone() GameResult {
	out := r
	out.Bets = cloneBets(r.Bets)
	out.Settlements = append([]Settlement(nil), r.Settlements...)
	if r.Outcome.Blackjack != nil {
		bj := *r.Outcome.Blackjack
		bj.Players = append([]BlackjackHand(nil), bj.Players...)
		out.Outcome.Blackjack = &bj
	}
	if r.Outcome.Roulette != nil {
		v := *r.Outcome.Roulette
		out.Outcome.Roulette = &v
	}
	if r.Outcome.Baccarat != nil {
		v := *r.Outcome.Baccarat
		out.Outcome.Baccarat = &v
	}
	if r.Outcome.Wheel != nil {
		v := *r.Outcome.Wheel
		out.Outcome.Wheel = &v
	}
	return out
}

func (b Bet) Clone() Bet {
	out := b
	if b.Options != nil {
		out.Options = maps.Clone(b.Options)
	}
	if b.Payout != nil {
		p := *b.Payout
		out.Payout = &p
	}
	return out
}

func (d *Dealer) Clone() *Dealer {
	if d == nil {
		return nil
	}
	out := *d
	out.Specialties = append([]GameType(nil), d.Specialties...)
	return &out
}

func (t *Tournament) Clone() *Tournament {
	if t == nil {
		return nil
	}
	out := *t
	out.Leaderboard = append([]LeaderboardEntry(nil), t.Leaderboard...)
	return &out
}

func (p Promotion) Clone() Promotion {
	out := p
	out.GameTypes = append([]GameType(nil), p.GameTypes...)
	return out
}

func cloneBets(bets []Bet) []Bet {
	if bets == nil {
		return nil
	}
	out := make([]Bet, len(bets))
	for i := range bets {
		out[i] = bets[i].Clone()
	}
	return out
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	x := *v
	return &x
}
