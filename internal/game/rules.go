package game

var phaseSequences = map[GameType][]Phase{
	TypeBlackjack: {PhaseBetting, PhaseDealing, PhasePlayerTurns, PhaseDealerTurn, PhaseSettlement},
	TypeRoulette:  {PhaseBetting, PhaseNoMoreBets, PhaseSpinning, PhaseResult},
	TypeBaccarat:  {PhaseBetting, PhaseDealing, PhaseDrawing, PhaseResult},
	TypeWheel:     {PhaseBetting, PhaseSpinning, PhaseResult},
}

// Phases returns the ordered phase sequence for a game type.
func Phases(t GameType) []Phase {
	seq := phaseSequences[t]
	out := make([]Phase, len(seq))
	copy(out, seq)
	return out
}

func FirstPhase(t GameType) Phase {
	seq := phaseSequences[t]
	if len(seq) == 0 {
		return PhaseBetting
	}
	return seq[0]
}

func TerminalPhase(t GameType) Phase {
	seq := phaseSequences[t]
	if len(seq) == 0 {
		return PhaseResult
	}
	return seq[len(seq)-1]
}

// NextPhase reports the phase after p, or false when p is terminal or unknown.
func NextPhase(t GameType, p Phase) (Phase, bool) {
	seq := phaseSequences[t]
	for i, ph := range seq {
		if ph == p {
			if i+1 < len(seq) {
				return seq[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

func PhaseIndex(t GameType, p Phase) int {
	for i, ph := range phaseSequences[t] {
		if ph == p {
			return i
		}
	}
	return -1
}

func (g *Game) Full() bool {
	return len(g.Players) >= g.MaxPlayers
}

func (g *Game) PlayerIndex(playerID string) int {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

// SeatHolder returns the id of the player occupying seat, or "".
func (g *Game) SeatHolder(seat int) string {
	for _, p := range g.Players {
		if p.Seat == seat {
			return p.ID
		}
	}
	return ""
}

// Seats is the number of addressable seats, never fewer than MaxPlayers.
func (g *Game) Seats() int {
	if g.Table.Seats < g.MaxPlayers {
		return g.MaxPlayers
	}
	return g.Table.Seats
}

// FreeSeat returns the lowest unoccupied seat in [1, Seats()], or 0 if none.
func (g *Game) FreeSeat() int {
	for s := 1; s <= g.Seats(); s++ {
		if g.SeatHolder(s) == "" {
			return s
		}
	}
	return 0
}

func (g *Game) HasCamera(cameraID string) bool {
	for _, c := range g.Stream.Cameras {
		if c == cameraID {
			return true
		}
	}
	return false
}

func (t *Tournament) Full() bool {
	return t.CurrentParticipants >= t.MaxParticipants
}
