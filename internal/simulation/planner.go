package simulation

import (
	"math/rand"
	"strings"
	"time"

	"casino-livesync/internal/config"
	"casino-livesync/internal/game"
	"casino-livesync/internal/ids"
	"casino-livesync/internal/protocol"
)

// SimPlayerPrefix marks roster entries the simulation owns. Churn and chip
// jitter never touch other players.
const SimPlayerPrefix = "sim-"

var simNames = []string{
	"LuckyLuna", "HighRoller88", "AceOfSpades", "RedOrBlack", "ChipStacker", "RiverRat",
	"WheelWatcher", "BankerBet", "SplitTens", "MidnightMax", "QueenOfHearts", "SilentSam",
}

var playerLines = []string{
	"good luck everyone", "come on red!", "nice hand", "that was close", "let's go",
	"dealer is on fire tonight", "one more round", "gg",
}

var dealerLines = []string{
	"Place your bets please.", "Good luck at the table!", "Welcome to the table.",
	"Thank you for playing.", "Bets are closing soon.",
}

type planner struct {
	cfg config.SimulationConfig
	now time.Time
}

type planJob struct {
	game       *game.Game
	dealerName string
	seed       int64
}

// plan builds the events for one game for one tick. Events are ordered so
// that each one is valid after the previous has been applied.
func (p planner) plan(g *game.Game, dealerName string, rnd *rand.Rand) []protocol.Event {
	var out []protocol.Event
	if g.Status == game.StatusPreparing {
		ready := g.Clone()
		ready.Status = game.StatusActive
		out = append(out, protocol.GameUpdate{Game: *ready})
		g = ready
	}
	if g.Status != game.StatusActive {
		return out
	}

	out = append(out, p.churn(g, rnd)...)

	r := g.CurrentRound
	if r == nil {
		out = append(out, p.startRound(g, g.LastRoundNumber+1))
	} else {
		if r.Phase == game.FirstPhase(g.Type) {
			out = append(out, p.botBets(g, rnd)...)
		}
		next, ok := game.NextPhase(g.Type, r.Phase)
		if ok {
			ends := p.now.Add(p.cfg.Tick())
			out = append(out, protocol.RoundPhase{GameID: g.ID, RoundID: r.ID, Phase: next, PhaseEndsAt: &ends})
		}
		if !ok || next == game.TerminalPhase(g.Type) {
			outcome, settlements := resolveRound(g.Type, r.Bets, rnd)
			out = append(out, protocol.RoundEnd{GameID: g.ID, Result: game.GameResult{
				RoundID:     r.ID,
				RoundNumber: r.Number,
				GameType:    g.Type,
				Outcome:     outcome,
				Settlements: settlements,
				ResolvedAt:  p.now,
			}})
			out = append(out, p.startRound(g, r.Number+1))
		}
	}

	if rnd.Float64() < p.cfg.ChatProbability {
		out = append(out, p.chat(g, dealerName, rnd))
	}
	return out
}

func (p planner) startRound(g *game.Game, number int64) protocol.Event {
	ends := p.now.Add(p.cfg.Tick())
	return protocol.RoundStart{GameID: g.ID, Round: game.Round{
		ID:          ids.Prefixed("round"),
		GameID:      g.ID,
		Number:      number,
		Phase:       game.FirstPhase(g.Type),
		Bets:        []game.Bet{},
		StartedAt:   p.now,
		PhaseEndsAt: &ends,
	}}
}

func simPlayers(g *game.Game) []game.Player {
	var out []game.Player
	for _, pl := range g.Players {
		if strings.HasPrefix(pl.ID, SimPlayerPrefix) {
			out = append(out, pl)
		}
	}
	return out
}

// churn seats or removes a simulated player and jitters one stack.
func (p planner) churn(g *game.Game, rnd *rand.Rand) []protocol.Event {
	var out []protocol.Event
	bots := simPlayers(g)
	if rnd.Float64() < p.cfg.ChurnProbability {
		join := len(bots) == 0 || rnd.Float64() < 0.6
		switch {
		case join && !g.Full():
			if seat := g.FreeSeat(); seat > 0 {
				out = append(out, protocol.PlayerJoined{GameID: g.ID, Player: game.Player{
					ID:          SimPlayerPrefix + strings.ToLower(ids.New()),
					Username:    simNames[rnd.Intn(len(simNames))],
					Seat:        seat,
					Chips:       int64(500 + 100*rnd.Intn(46)),
					IsActive:    true,
					IsConnected: true,
					JoinedAt:    p.now,
				}})
			}
		case len(bots) > 0:
			leaving := bots[rnd.Intn(len(bots))]
			out = append(out, protocol.PlayerLeft{GameID: g.ID, PlayerID: leaving.ID})
			bots = removePlayer(bots, leaving.ID)
		}
	}
	if len(bots) > 0 && rnd.Intn(2) == 0 {
		pl := bots[rnd.Intn(len(bots))]
		pl.Chips += rnd.Int63n(201) - 100
		if pl.Chips < 0 {
			pl.Chips = 0
		}
		out = append(out, protocol.PlayerJoined{GameID: g.ID, Player: pl})
	}
	return out
}

func removePlayer(list []game.Player, id string) []game.Player {
	out := list[:0:0]
	for _, pl := range list {
		if pl.ID != id {
			out = append(out, pl)
		}
	}
	return out
}

func (p planner) botBets(g *game.Game, rnd *rand.Rand) []protocol.Event {
	r := g.CurrentRound
	var out []protocol.Event
	for _, pl := range simPlayers(g) {
		if rnd.Intn(3) == 0 {
			continue
		}
		limit := g.MaxBet
		if pl.Chips < limit {
			limit = pl.Chips
		}
		if limit < g.MinBet || g.MinBet <= 0 {
			continue
		}
		amount := g.MinBet + rnd.Int63n(limit-g.MinBet+1)
		betType, opts := p.betChoice(g.Type, rnd)
		out = append(out, protocol.BetPlaced{GameID: g.ID, Bet: game.Bet{
			ID:       ids.Prefixed("bet"),
			RoundID:  r.ID,
			PlayerID: pl.ID,
			Amount:   amount,
			Type:     betType,
			Options:  opts,
			Status:   game.BetPending,
			PlacedAt: p.now,
		}})
	}
	return out
}

func (p planner) betChoice(t game.GameType, rnd *rand.Rand) (string, map[string]any) {
	switch t {
	case game.TypeRoulette:
		switch rnd.Intn(4) {
		case 0:
			return "straight", map[string]any{"number": rnd.Intn(37)}
		case 1:
			return "red", nil
		case 2:
			return "black", nil
		default:
			return "odd", nil
		}
	case game.TypeBaccarat:
		choices := []string{"player", "banker", "banker", "tie"}
		return choices[rnd.Intn(len(choices))], nil
	case game.TypeWheel:
		return wheelSegments[rnd.Intn(len(wheelSegments))].Label, nil
	}
	return "main", nil
}

func (p planner) chat(g *game.Game, dealerName string, rnd *rand.Rand) protocol.Event {
	msg := game.ChatMessage{
		ID:        ids.Prefixed("chat"),
		GameID:    g.ID,
		Timestamp: p.now,
	}
	bots := simPlayers(g)
	if len(bots) > 0 && rnd.Float64() < 0.7 {
		pl := bots[rnd.Intn(len(bots))]
		msg.SenderID = pl.ID
		msg.Username = pl.Username
		msg.Type = game.ChatPlayer
		msg.Text = playerLines[rnd.Intn(len(playerLines))]
	} else {
		if dealerName == "" {
			dealerName = "Dealer"
		}
		msg.SenderID = g.DealerID
		msg.Username = dealerName
		msg.Type = game.ChatDealer
		msg.Text = dealerLines[rnd.Intn(len(dealerLines))]
	}
	return protocol.ChatMessage{Message: msg}
}
