package state

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"casino-livesync/internal/game"
	"casino-livesync/internal/protocol"
)

var testActor = Actor{ID: "me", Username: "Me", Chips: 1000}

func applyAll(t *testing.T, d *Dispatcher, events []protocol.Event) {
	t.Helper()
	for _, ev := range events {
		d.Apply(ev)
	}
}

func TestResolveJoinTableFull(t *testing.T) {
	d, _ := newTestDispatcher(t)
	seedGame(t, d, "g", 2)
	for i := 1; i <= 2; i++ {
		d.Apply(protocol.PlayerJoined{GameID: "g", Player: game.Player{ID: fmt.Sprintf("p%d", i), Seat: i}})
	}
	before := mustGame(t, d, "g")
	_, err := Resolve(d.Store(), testActor, protocol.JoinGame{GameID: "g"}, time.Now())
	if !errors.Is(err, game.ErrTableFull) {
		t.Fatalf("err = %v, want ErrTableFull", err)
	}
	if after := mustGame(t, d, "g"); len(after.Players) != len(before.Players) {
		t.Fatalf("roster changed: %d -> %d", len(before.Players), len(after.Players))
	}
}

func TestResolveJoinSeatRules(t *testing.T) {
	d, _ := newTestDispatcher(t)
	seedGame(t, d, "g", 4)
	d.Apply(protocol.PlayerJoined{GameID: "g", Player: game.Player{ID: "other", Seat: 2}})

	seat := 2
	if _, err := Resolve(d.Store(), testActor, protocol.JoinGame{GameID: "g", SeatNumber: &seat}, time.Now()); !errors.Is(err, game.ErrSeatTaken) {
		t.Fatalf("err = %v, want ErrSeatTaken", err)
	}
	seat = 9
	if _, err := Resolve(d.Store(), testActor, protocol.JoinGame{GameID: "g", SeatNumber: &seat}, time.Now()); !errors.Is(err, game.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	seat = 3
	events, err := Resolve(d.Store(), testActor, protocol.JoinGame{GameID: "g", SeatNumber: &seat}, time.Now())
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	applyAll(t, d, events)
	g := mustGame(t, d, "g")
	if idx := g.PlayerIndex("me"); idx < 0 || g.Players[idx].Seat != 3 {
		t.Fatalf("player not seated at 3: %+v", g.Players)
	}
	again, err := Resolve(d.Store(), testActor, protocol.JoinGame{GameID: "g"}, time.Now())
	if err != nil || again != nil {
		t.Fatalf("rejoin = %v, %v; want no events", again, err)
	}
}

func TestResolveUnknownEntities(t *testing.T) {
	d, _ := newTestDispatcher(t)
	cmds := []protocol.Command{
		protocol.JoinGame{GameID: "nope"},
		protocol.LeaveGame{GameID: "nope"},
		protocol.PlaceBet{GameID: "nope", Bet: game.Bet{Amount: 5}},
		protocol.SendChat{GameID: "nope", Message: "hi"},
		protocol.SwitchCamera{GameID: "nope", CameraID: "main"},
		protocol.ChangeQuality{GameID: "nope", Quality: game.QualityHD},
		protocol.TipDealer{GameID: "nope", Amount: 5},
		protocol.RegisterTournament{TournamentID: "nope"},
	}
	for _, cmd := range cmds {
		t.Run(string(cmd.Kind()), func(t *testing.T) {
			if _, err := Resolve(d.Store(), testActor, cmd, time.Now()); !errors.Is(err, game.ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestResolveTournamentFull(t *testing.T) {
	d, _ := newTestDispatcher(t)
	d.Apply(protocol.TournamentUpdate{Tournament: game.Tournament{
		ID: "t", Status: game.TournamentRegistration, MaxParticipants: 10, CurrentParticipants: 10,
	}})
	if _, err := Resolve(d.Store(), testActor, protocol.RegisterTournament{TournamentID: "t"}, time.Now()); !errors.Is(err, game.ErrTournamentFull) {
		t.Fatalf("err = %v, want ErrTournamentFull", err)
	}
	tour, _ := d.Store().Tournament("t")
	if tour.CurrentParticipants != 10 {
		t.Fatalf("participants = %d, want 10", tour.CurrentParticipants)
	}
}

func TestResolveRegisterIncrements(t *testing.T) {
	d, _ := newTestDispatcher(t)
	d.Apply(protocol.TournamentUpdate{Tournament: game.Tournament{
		ID: "t", Status: game.TournamentRegistration, MaxParticipants: 10, CurrentParticipants: 3, BuyIn: 50, PrizePool: 150,
	}})
	d.Apply(protocol.TournamentUpdate{Tournament: game.Tournament{ID: "closed", Status: game.TournamentActive, MaxParticipants: 10}})

	events, err := Resolve(d.Store(), testActor, protocol.RegisterTournament{TournamentID: "t"}, time.Now())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	applyAll(t, d, events)
	tour, _ := d.Store().Tournament("t")
	if tour.CurrentParticipants != 4 || tour.PrizePool != 200 {
		t.Fatalf("tournament = %+v", tour)
	}
	if _, err := Resolve(d.Store(), testActor, protocol.RegisterTournament{TournamentID: "closed"}, time.Now()); !errors.Is(err, game.ErrRegistrationClosed) {
		t.Fatalf("err = %v, want ErrRegistrationClosed", err)
	}
}

func TestResolveBetRangeAndRound(t *testing.T) {
	d, _ := newTestDispatcher(t)
	seedGame(t, d, "g", 4)
	if _, err := Resolve(d.Store(), testActor, protocol.PlaceBet{GameID: "g", Bet: game.Bet{Amount: 501}}, time.Now()); !errors.Is(err, game.ErrBetOutOfRange) {
		t.Fatalf("err = %v, want ErrBetOutOfRange", err)
	}
	d.Apply(roundStart("g", 1))
	events, err := Resolve(d.Store(), testActor, protocol.PlaceBet{GameID: "g", Bet: game.Bet{Amount: 20, Type: "red"}}, time.Now())
	if err != nil {
		t.Fatalf("bet: %v", err)
	}
	bp := events[0].(protocol.BetPlaced)
	if bp.Bet.RoundID != "g-r1" || bp.Bet.PlayerID != "me" || bp.Bet.Status != game.BetPending || bp.Bet.ID == "" {
		t.Fatalf("bet = %+v", bp.Bet)
	}
}

func TestResolveChatValidation(t *testing.T) {
	d, _ := newTestDispatcher(t)
	seedGame(t, d, "g", 4)
	for _, text := range []string{"", "   ", strings.Repeat("x", game.MaxChatMessageRunes+1)} {
		if _, err := Resolve(d.Store(), testActor, protocol.SendChat{GameID: "g", Message: text}, time.Now()); !errors.Is(err, game.ErrInvalidRequest) {
			t.Fatalf("len %d: err = %v, want ErrInvalidRequest", len(text), err)
		}
	}
	events, err := Resolve(d.Store(), testActor, protocol.SendChat{GameID: "g", Message: " hello "}, time.Now())
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	msg := events[0].(protocol.ChatMessage).Message
	if msg.Text != "hello" || msg.Username != "Me" || msg.Type != game.ChatPlayer {
		t.Fatalf("message = %+v", msg)
	}
}

func TestResolveTipAndCamera(t *testing.T) {
	d, _ := newTestDispatcher(t)
	d.Apply(protocol.DealerUpdate{Dealer: game.Dealer{ID: "d1", Name: "Ana"}})
	seedGame(t, d, "g", 4)
	g := mustGame(t, d, "g")
	g.DealerID = "d1"
	d.Apply(protocol.GameUpdate{Game: *g})

	events, err := Resolve(d.Store(), testActor, protocol.TipDealer{GameID: "g", Amount: 25}, time.Now())
	if err != nil {
		t.Fatalf("tip: %v", err)
	}
	applyAll(t, d, events)
	dealer, _ := d.Store().Dealer("d1")
	if dealer.Stats.TipsReceived != 25 {
		t.Fatalf("tips = %d, want 25", dealer.Stats.TipsReceived)
	}
	if chat := d.Store().Chat("g"); len(chat) != 1 || chat[0].Type != game.ChatSystem {
		t.Fatalf("chat = %+v", chat)
	}

	if _, err := Resolve(d.Store(), testActor, protocol.SwitchCamera{GameID: "g", CameraID: "ceiling"}, time.Now()); !errors.Is(err, game.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if ev, err := Resolve(d.Store(), testActor, protocol.SwitchCamera{GameID: "g", CameraID: "wheel"}, time.Now()); err != nil || ev != nil {
		t.Fatalf("switch camera = %v, %v", ev, err)
	}
}

func TestResolveLeaveNotSeated(t *testing.T) {
	d, _ := newTestDispatcher(t)
	seedGame(t, d, "g", 4)
	if _, err := Resolve(d.Store(), testActor, protocol.LeaveGame{GameID: "g"}, time.Now()); !errors.Is(err, game.ErrNotSeated) {
		t.Fatalf("err = %v, want ErrNotSeated", err)
	}
}
