package state

import (
	"sync"
	"time"

	"casino-livesync/internal/game"
	"casino-livesync/internal/protocol"

	"github.com/hashicorp/go-memdb"
	"github.com/rs/zerolog/log"
)

// Drop reasons reported in logs and the state_events_dropped_total map.
const (
	dropUnknownGame    = "unknown_game"
	dropStaleRound     = "stale_round"
	dropStalePhase     = "stale_phase"
	dropNoCurrentRound = "no_current_round"
	dropRoundMismatch  = "round_mismatch"
	dropDuplicate      = "duplicate"
	dropTableFull      = "table_full"
	dropSeatTaken      = "seat_taken"
	dropNotSeated      = "not_seated"
	dropUnchanged      = "unchanged"
	dropInvalid        = "invalid"
)

// Publisher receives every event that changed the store, in apply order.
type Publisher interface {
	Publish(ev protocol.Event)
}

// Dispatcher is the only writer of a Store. Live frames, simulated frames
// and locally applied commands all pass through Apply.
type Dispatcher struct {
	mu    sync.Mutex
	store *Store
	pub   Publisher
	now   func() time.Time
}

func NewDispatcher(store *Store, pub Publisher) *Dispatcher {
	return &Dispatcher{store: store, pub: pub, now: time.Now}
}

func (d *Dispatcher) Store() *Store {
	return d.store
}

// Apply merges one event into the store as a single write transaction and
// reports whether anything changed. Dropped events leave the store as it was.
func (d *Dispatcher) Apply(ev protocol.Event) bool {
	if ev == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	txn := d.store.db.Txn(true)
	reason := d.apply(txn, ev)
	if reason != "" {
		txn.Abort()
		metricEventsDropped.Add(reason, 1)
		log.Debug().
			Str("kind", string(ev.Kind())).
			Str("game_id", protocol.GameIDOf(ev)).
			Str("reason", reason).
			Msg("event_dropped")
		return false
	}
	txn.Commit()
	metricEventsApplied.Add(1)
	if d.pub != nil {
		d.pub.Publish(ev)
	}
	return true
}

func (d *Dispatcher) apply(txn *memdb.Txn, ev protocol.Event) string {
	switch e := ev.(type) {
	case protocol.GameUpdate:
		return d.applyGameUpdate(txn, e)
	case protocol.DealerUpdate:
		dl := e.Dealer
		return insert(txn, tableDealers, dl.Clone())
	case protocol.TournamentUpdate:
		return d.applyTournamentUpdate(txn, e)
	case protocol.RoundStart:
		return d.applyRoundStart(txn, e)
	case protocol.RoundPhase:
		return d.applyRoundPhase(txn, e)
	case protocol.RoundEnd:
		return d.applyRoundEnd(txn, e)
	case protocol.BetPlaced:
		return d.applyBetPlaced(txn, e)
	case protocol.ChatMessage:
		return d.applyChat(txn, e)
	case protocol.PlayerJoined:
		return d.applyPlayerJoined(txn, e)
	case protocol.PlayerLeft:
		return d.applyPlayerLeft(txn, e)
	case protocol.StreamQualityChanged:
		return d.applyStreamQuality(txn, e)
	case protocol.PromotionUpdate:
		items := make([]game.Promotion, len(e.Promotions))
		for i, p := range e.Promotions {
			items[i] = p.Clone()
		}
		return insert(txn, tablePromotions, &promotionSet{Key: promotionsKey, Items: items})
	}
	return dropInvalid
}

func insert(txn *memdb.Txn, table string, obj any) string {
	if err := txn.Insert(table, obj); err != nil {
		log.Warn().Err(err).Str("table", table).Msg("store_insert_failed")
		return dropInvalid
	}
	return ""
}

func (d *Dispatcher) applyGameUpdate(txn *memdb.Txn, e protocol.GameUpdate) string {
	g := e.Game.Clone()
	if g.Status == "" {
		g.Status = game.StatusPreparing
	}
	if g.Status != game.StatusActive {
		g.CurrentRound = nil
	}
	g.Players = seatRoster(g)
	g.History = game.TrimTail(g.History, game.MaxGameHistory)
	if g.CurrentRound != nil {
		if g.CurrentRound.GameID == "" {
			g.CurrentRound.GameID = g.ID
		}
		if g.CurrentRound.Number > g.LastRoundNumber {
			g.LastRoundNumber = g.CurrentRound.Number
		}
	}
	return insert(txn, tableGames, g)
}

// seatRoster returns g's roster with one entry per player id (the last one
// wins), every seat unique and inside [1, Seats()], and at most MaxPlayers
// entries. Unseated players take the lowest free seat. A table without
// capacity has no roster.
func seatRoster(g *game.Game) []game.Player {
	if g.MaxPlayers <= 0 {
		return []game.Player{}
	}
	last := make(map[string]int, len(g.Players))
	for i, p := range g.Players {
		last[p.ID] = i
	}
	keep := func(i int, p game.Player) bool {
		return p.ID != "" && last[p.ID] == i && p.Seat >= 0 && p.Seat <= g.Seats()
	}
	owner := make(map[int]int, len(g.Players))
	for i, p := range g.Players {
		if !keep(i, p) || p.Seat == 0 {
			continue
		}
		if _, ok := owner[p.Seat]; !ok {
			owner[p.Seat] = i
		}
	}
	out := make([]game.Player, 0, len(g.Players))
	for i, p := range g.Players {
		if len(out) == g.MaxPlayers {
			break
		}
		if !keep(i, p) {
			continue
		}
		if p.Seat == 0 {
			for s := 1; s <= g.Seats(); s++ {
				if _, ok := owner[s]; !ok {
					p.Seat = s
					owner[s] = i
					break
				}
			}
			if p.Seat == 0 {
				continue
			}
		} else if owner[p.Seat] != i {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (d *Dispatcher) applyTournamentUpdate(txn *memdb.Txn, e protocol.TournamentUpdate) string {
	t := e.Tournament.Clone()
	if t.Status == "" {
		t.Status = game.TournamentUpcoming
	}
	if t.CurrentParticipants < 0 {
		t.CurrentParticipants = 0
	}
	if t.MaxParticipants > 0 && t.CurrentParticipants > t.MaxParticipants {
		t.CurrentParticipants = t.MaxParticipants
	}
	return insert(txn, tableTournaments, t)
}

func (d *Dispatcher) applyRoundStart(txn *memdb.Txn, e protocol.RoundStart) string {
	cur := lookupGame(txn, e.GameID)
	if cur == nil {
		return dropUnknownGame
	}
	if e.Round.Number <= cur.LastRoundNumber {
		return dropStaleRound
	}
	if cur.LastRoundNumber > 0 && e.Round.Number != cur.LastRoundNumber+1 {
		log.Warn().
			Str("game_id", e.GameID).
			Int64("last_round", cur.LastRoundNumber).
			Int64("round", e.Round.Number).
			Msg("round_number_gap")
	}
	g := cur.Clone()
	r := e.Round.Clone()
	r.GameID = g.ID
	if r.Phase == "" {
		r.Phase = game.FirstPhase(g.Type)
	}
	if r.Bets == nil {
		r.Bets = []game.Bet{}
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = d.now()
	}
	g.CurrentRound = r
	g.Status = game.StatusActive
	g.LastRoundNumber = r.Number
	for i := range g.Players {
		g.Players[i].CurrentBet = 0
	}
	return insert(txn, tableGames, g)
}

func (d *Dispatcher) applyRoundPhase(txn *memdb.Txn, e protocol.RoundPhase) string {
	cur := lookupGame(txn, e.GameID)
	if cur == nil {
		return dropUnknownGame
	}
	if cur.CurrentRound == nil {
		return dropNoCurrentRound
	}
	if cur.CurrentRound.ID != e.RoundID {
		return dropRoundMismatch
	}
	next := game.PhaseIndex(cur.Type, e.Phase)
	if next < 0 {
		return dropInvalid
	}
	if next <= game.PhaseIndex(cur.Type, cur.CurrentRound.Phase) {
		return dropStalePhase
	}
	g := cur.Clone()
	g.CurrentRound.Phase = e.Phase
	g.CurrentRound.PhaseEndsAt = nil
	if e.PhaseEndsAt != nil {
		ts := *e.PhaseEndsAt
		g.CurrentRound.PhaseEndsAt = &ts
	}
	return insert(txn, tableGames, g)
}

func (d *Dispatcher) applyRoundEnd(txn *memdb.Txn, e protocol.RoundEnd) string {
	cur := lookupGame(txn, e.GameID)
	if cur == nil {
		return dropUnknownGame
	}
	for _, h := range cur.History {
		if h.RoundID == e.Result.RoundID {
			return dropDuplicate
		}
	}
	g := cur.Clone()
	res := e.Result.Clone()
	if res.GameType == "" {
		res.GameType = g.Type
	}
	if res.ResolvedAt.IsZero() {
		res.ResolvedAt = d.now()
	}
	if g.CurrentRound != nil && g.CurrentRound.ID == res.RoundID {
		if res.RoundNumber == 0 {
			res.RoundNumber = g.CurrentRound.Number
		}
		res.Bets = settleBets(g.CurrentRound.Bets, res.Settlements)
		g.CurrentRound = nil
		for i := range g.Players {
			g.Players[i].CurrentBet = 0
		}
	} else {
		res.Bets = settleBets(res.Bets, res.Settlements)
	}
	if res.RoundNumber > g.LastRoundNumber {
		g.LastRoundNumber = res.RoundNumber
	}

	g.History = game.PrependCapped(g.History, res, game.MaxGameHistory)
	g.Statistics.RoundsPlayed++
	for _, b := range res.Bets {
		g.Statistics.TotalWagered += b.Amount
		if b.Payout != nil && *b.Payout > g.Statistics.BiggestWin {
			g.Statistics.BiggestWin = *b.Payout
		}
	}
	ts := res.ResolvedAt
	g.Statistics.LastResultAt = &ts
	return insert(txn, tableGames, g)
}

// settleBets resolves each pending bet exactly once. Pending bets without a
// settlement are voided; bets already in a terminal status are kept as is.
func settleBets(bets []game.Bet, settlements []game.Settlement) []game.Bet {
	byBet := make(map[string]game.Settlement, len(settlements))
	for _, s := range settlements {
		byBet[s.BetID] = s
	}
	out := make([]game.Bet, 0, len(bets))
	for _, b := range bets {
		b = b.Clone()
		if b.Status == "" || b.Status == game.BetPending {
			s, ok := byBet[b.ID]
			switch {
			case ok && s.Status.Terminal():
				b.Status = s.Status
				if s.Payout != nil {
					p := *s.Payout
					b.Payout = &p
				}
			default:
				b.Status = game.BetVoid
			}
		}
		out = append(out, b)
	}
	return out
}

func (d *Dispatcher) applyBetPlaced(txn *memdb.Txn, e protocol.BetPlaced) string {
	cur := lookupGame(txn, e.GameID)
	if cur == nil {
		return dropUnknownGame
	}
	if cur.CurrentRound == nil {
		return dropNoCurrentRound
	}
	if e.Bet.RoundID != "" && e.Bet.RoundID != cur.CurrentRound.ID {
		return dropRoundMismatch
	}
	for _, b := range cur.CurrentRound.Bets {
		if b.ID == e.Bet.ID {
			return dropDuplicate
		}
	}
	g := cur.Clone()
	bet := e.Bet.Clone()
	bet.RoundID = g.CurrentRound.ID
	if bet.Status == "" {
		bet.Status = game.BetPending
	}
	if bet.PlacedAt.IsZero() {
		bet.PlacedAt = d.now()
	}
	g.CurrentRound.Bets = append(g.CurrentRound.Bets, bet)
	if idx := g.PlayerIndex(bet.PlayerID); idx >= 0 {
		g.Players[idx].CurrentBet += bet.Amount
	}
	return insert(txn, tableGames, g)
}

func (d *Dispatcher) applyChat(txn *memdb.Txn, e protocol.ChatMessage) string {
	msg := e.Message
	if lookupGame(txn, msg.GameID) == nil {
		return dropUnknownGame
	}
	var history []game.ChatMessage
	if cl := lookupChat(txn, msg.GameID); cl != nil {
		for _, m := range cl.Messages {
			if m.ID == msg.ID {
				return dropDuplicate
			}
		}
		history = cl.Messages
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = d.now()
	}
	return insert(txn, tableChat, &chatLog{
		GameID:   msg.GameID,
		Messages: game.AppendCapped(history, msg, game.MaxChatHistory),
	})
}

func (d *Dispatcher) applyPlayerJoined(txn *memdb.Txn, e protocol.PlayerJoined) string {
	cur := lookupGame(txn, e.GameID)
	if cur == nil {
		return dropUnknownGame
	}
	p := e.Player
	if p.Seat < 0 || p.Seat > cur.Seats() {
		return dropInvalid
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = d.now()
	}
	if p.TimeToAct != nil {
		v := *p.TimeToAct
		p.TimeToAct = &v
	}
	g := cur.Clone()
	if idx := g.PlayerIndex(p.ID); idx >= 0 {
		if p.Seat == 0 {
			p.Seat = g.Players[idx].Seat
		}
		if holder := g.SeatHolder(p.Seat); holder != "" && holder != p.ID {
			return dropSeatTaken
		}
		p.JoinedAt = g.Players[idx].JoinedAt
		g.Players[idx] = p
		return insert(txn, tableGames, g)
	}
	if g.Full() {
		return dropTableFull
	}
	if p.Seat == 0 {
		p.Seat = g.FreeSeat()
	}
	if g.SeatHolder(p.Seat) != "" {
		return dropSeatTaken
	}
	g.Players = append(g.Players, p)
	return insert(txn, tableGames, g)
}

func (d *Dispatcher) applyPlayerLeft(txn *memdb.Txn, e protocol.PlayerLeft) string {
	cur := lookupGame(txn, e.GameID)
	if cur == nil {
		return dropUnknownGame
	}
	if cur.PlayerIndex(e.PlayerID) < 0 {
		return dropNotSeated
	}
	g := cur.Clone()
	kept := g.Players[:0]
	for _, p := range g.Players {
		if p.ID != e.PlayerID {
			kept = append(kept, p)
		}
	}
	g.Players = kept
	return insert(txn, tableGames, g)
}

func (d *Dispatcher) applyStreamQuality(txn *memdb.Txn, e protocol.StreamQualityChanged) string {
	cur := lookupGame(txn, e.GameID)
	if cur == nil {
		return dropUnknownGame
	}
	if cur.Stream.Quality == e.Quality {
		return dropUnchanged
	}
	g := cur.Clone()
	g.Stream.Quality = e.Quality
	return insert(txn, tableGames, g)
}
