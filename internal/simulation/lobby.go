package simulation

import (
	"math/rand"
	"sort"
	"time"

	"casino-livesync/internal/game"
	"casino-livesync/internal/protocol"
)

// registrationLead is how long before its start a tournament opens.
const registrationLead = time.Hour

// planDealers flips dealers on and off shift and credits dealt rounds.
func planDealers(dealers []*game.Dealer, dealt map[string]int64, now time.Time) []protocol.Event {
	var out []protocol.Event
	for _, d := range dealers {
		online := d.Shift.Covers(now)
		n := dealt[d.ID]
		if online == d.IsOnline && n == 0 {
			continue
		}
		next := d.Clone()
		next.IsOnline = online
		next.Stats.RoundsDealt += n
		out = append(out, protocol.DealerUpdate{Dealer: *next})
	}
	return out
}

// planTournaments moves tournaments through upcoming, registration, active
// and finished, filling seats and leaderboards on the way.
func planTournaments(tournaments []*game.Tournament, churn float64, now time.Time, rnd *rand.Rand) []protocol.Event {
	var out []protocol.Event
	for _, t := range tournaments {
		next := t.Clone()
		changed := false
		switch t.Status {
		case game.TournamentUpcoming:
			if !now.Before(t.StartsAt.Add(-registrationLead)) {
				next.Status = game.TournamentRegistration
				changed = true
			}
		case game.TournamentRegistration:
			switch {
			case !now.Before(t.StartsAt):
				next.Status = game.TournamentActive
				next.Leaderboard = seedLeaderboard(next.CurrentParticipants, rnd)
				changed = true
			case !t.Full() && rnd.Float64() < churn:
				next.CurrentParticipants++
				next.PrizePool += t.BuyIn
				changed = true
			}
		case game.TournamentActive:
			if !now.Before(t.EndsAt) {
				next.Status = game.TournamentFinished
				changed = true
				break
			}
			if len(next.Leaderboard) == 0 {
				next.Leaderboard = seedLeaderboard(next.CurrentParticipants, rnd)
			}
			for i := range next.Leaderboard {
				next.Leaderboard[i].Score += rnd.Int63n(250)
			}
			rankLeaderboard(next.Leaderboard)
			changed = len(next.Leaderboard) > 0
		}
		if changed {
			out = append(out, protocol.TournamentUpdate{Tournament: *next})
		}
	}
	return out
}

func seedLeaderboard(participants int, rnd *rand.Rand) []game.LeaderboardEntry {
	n := participants
	if n > 5 {
		n = 5
	}
	out := make([]game.LeaderboardEntry, 0, n)
	for i := 0; i < n; i++ {
		name := simNames[(i+rnd.Intn(len(simNames)))%len(simNames)]
		out = append(out, game.LeaderboardEntry{
			PlayerID: SimPlayerPrefix + "t" + string(rune('a'+i)),
			Username: name,
			Score:    rnd.Int63n(1000),
		})
	}
	rankLeaderboard(out)
	return out
}

func rankLeaderboard(entries []game.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
