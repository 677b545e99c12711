package protocol

import (
	"errors"
	"testing"
	"time"

	"casino-livesync/internal/game"
)

func sampleGame() game.Game {
	return game.Game{
		ID:         "bj-1",
		Name:       "Blackjack One",
		Type:       game.TypeBlackjack,
		Status:     game.StatusActive,
		Category:   game.CategoryFeatured,
		DealerID:   "d-1",
		Table:      game.TableLayout{Layout: "classic", Seats: 7},
		Players:    []game.Player{{ID: "p-1", Username: "ann", Seat: 1, Chips: 500}},
		MinPlayers: 1,
		MaxPlayers: 7,
		MinBet:     10,
		MaxBet:     1000,
		History:    []game.GameResult{},
		Stream:     game.StreamInfo{Quality: game.QualityAuto, CameraID: "main", Cameras: []string{"main"}},
	}
}

func sampleEvents() []Event {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	payout := int64(20)
	return []Event{
		GameUpdate{Game: sampleGame()},
		DealerUpdate{Dealer: game.Dealer{ID: "d-1", Name: "Dana", Specialties: []game.GameType{game.TypeBlackjack}}},
		TournamentUpdate{Tournament: game.Tournament{ID: "t-1", Name: "Cup", GameType: game.TypeRoulette, Status: game.TournamentRegistration, MaxParticipants: 10, Leaderboard: []game.LeaderboardEntry{}}},
		RoundStart{GameID: "bj-1", Round: game.Round{ID: "r-1", GameID: "bj-1", Number: 1, Phase: game.PhaseBetting, Bets: []game.Bet{}, StartedAt: now}},
		RoundPhase{GameID: "bj-1", RoundID: "r-1", Phase: game.PhaseDealing, PhaseEndsAt: &now},
		RoundEnd{GameID: "bj-1", Result: game.GameResult{
			RoundID: "r-1", RoundNumber: 1, GameType: game.TypeRoulette,
			Outcome:     game.Outcome{Roulette: &game.RouletteOutcome{Number: 7, Color: "red"}},
			Settlements: []game.Settlement{{BetID: "b-1", Status: game.BetWon, Payout: &payout}},
			ResolvedAt:  now,
		}},
		BetPlaced{GameID: "bj-1", Bet: game.Bet{ID: "b-1", RoundID: "r-1", PlayerID: "p-1", Amount: 10, Type: "main", Status: game.BetPending, PlacedAt: now}},
		ChatMessage{Message: game.ChatMessage{ID: "c-1", GameID: "bj-1", SenderID: "p-1", Username: "ann", Text: "hi", Timestamp: now, Type: game.ChatPlayer}},
		PlayerJoined{GameID: "bj-1", Player: game.Player{ID: "p-2", Username: "bob", Seat: 2, JoinedAt: now}},
		PlayerLeft{GameID: "bj-1", PlayerID: "p-2"},
		StreamQualityChanged{GameID: "bj-1", Quality: game.QualityHD},
		PromotionUpdate{Promotions: []game.Promotion{{ID: "promo-1", Title: "Happy hour", GameTypes: []game.GameType{game.TypeWheel}, BonusPercent: 10, ValidFrom: now}}},
	}
}

func sampleCommands() []Command {
	seat := 3
	return []Command{
		JoinGame{GameID: "bj-1", SeatNumber: &seat},
		LeaveGame{GameID: "bj-1"},
		PlaceBet{GameID: "bj-1", Bet: game.Bet{ID: "b-1", Amount: 10, Type: "main", Status: game.BetPending}},
		SendChat{GameID: "bj-1", Message: "hello", Username: "ann"},
		SwitchCamera{GameID: "bj-1", CameraID: "overhead"},
		ChangeQuality{GameID: "bj-1", Quality: game.QualityLow},
		TipDealer{GameID: "bj-1", Amount: 5},
		RegisterTournament{TournamentID: "t-1"},
	}
}

func TestEventRoundTrip(t *testing.T) {
	events := sampleEvents()
	if len(events) != len(EventKinds) {
		t.Fatalf("samples cover %d kinds, want %d", len(events), len(EventKinds))
	}
	for _, ev := range events {
		t.Run(string(ev.Kind()), func(t *testing.T) {
			data, err := Encode(ev)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			kind, err := PeekKind(data)
			if err != nil || kind != ev.Kind() {
				t.Fatalf("PeekKind = %q, %v", kind, err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode(%s) error = %v", data, err)
			}
			if got.Kind() != ev.Kind() {
				t.Fatalf("kind = %s, want %s", got.Kind(), ev.Kind())
			}
			if GameIDOf(got) != GameIDOf(ev) {
				t.Fatalf("game id = %q, want %q", GameIDOf(got), GameIDOf(ev))
			}
		})
	}
}

func TestCommandRoundTrip(t *testing.T) {
	for _, cmd := range sampleCommands() {
		t.Run(string(cmd.Kind()), func(t *testing.T) {
			data, err := EncodeCommand(cmd)
			if err != nil {
				t.Fatalf("EncodeCommand() error = %v", err)
			}
			got, err := DecodeCommand(data)
			if err != nil {
				t.Fatalf("DecodeCommand(%s) error = %v", data, err)
			}
			if got.Kind() != cmd.Kind() {
				t.Fatalf("kind = %s, want %s", got.Kind(), cmd.Kind())
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  error
	}{
		{"not json", `{"type":`, ErrMalformedFrame},
		{"missing type", `{"v":1}`, ErrMalformedFrame},
		{"unknown kind", `{"v":1,"type":"jackpot_won"}`, ErrUnknownFrame},
		{"future version", `{"v":2,"type":"player_left","game_id":"g","player_id":"p"}`, ErrUnsupportedVersion},
		{"wrong payload type", `{"type":"player_left","game_id":5}`, ErrMalformedFrame},
		{"missing ids", `{"type":"player_left","game_id":"g"}`, ErrMalformedFrame},
		{"zero round number", `{"type":"round_start","game_id":"g","round":{"id":"r"}}`, ErrMalformedFrame},
		{"bad quality", `{"type":"stream_quality_changed","game_id":"g","quality":"4k"}`, ErrMalformedFrame},
		{"negative seat", `{"type":"player_joined","game_id":"g","player":{"id":"p","seat":-4}}`, ErrMalformedFrame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.frame))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeFillsImplicitFields(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"round_start","game_id":"g","round":{"id":"r","round_number":4}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	rs := ev.(RoundStart)
	if rs.Round.GameID != "g" {
		t.Fatalf("round.game_id = %q, want g", rs.Round.GameID)
	}

	ev, err = Decode([]byte(`{"type":"bet_placed","game_id":"g","bet":{"id":"b","amount":5}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if ev.(BetPlaced).Bet.Status != game.BetPending {
		t.Fatalf("bet status = %q, want pending", ev.(BetPlaced).Bet.Status)
	}
}

func TestDecodeDefaultsMissingStatus(t *testing.T) {
	ev, err := Decode([]byte(`{"v":1,"type":"game_update","game":{"id":"g9","type":"roulette","max_players":6}}`))
	if err != nil {
		t.Fatalf("Decode(game_update) error = %v", err)
	}
	if got := ev.(GameUpdate).Game.Status; got != game.StatusPreparing {
		t.Fatalf("game status = %q, want %q", got, game.StatusPreparing)
	}

	ev, err = Decode([]byte(`{"v":1,"type":"tournament_update","tournament":{"id":"t9","max_participants":8}}`))
	if err != nil {
		t.Fatalf("Decode(tournament_update) error = %v", err)
	}
	if got := ev.(TournamentUpdate).Tournament.Status; got != game.TournamentUpcoming {
		t.Fatalf("tournament status = %q, want %q", got, game.TournamentUpcoming)
	}
}

func TestEncodeStampsVersion(t *testing.T) {
	data, err := Encode(PlayerLeft{GameID: "g", PlayerID: "p"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `{"v":1,"type":"player_left","game_id":"g","player_id":"p"}`
	if string(data) != want {
		t.Fatalf("Encode() = %s, want %s", data, want)
	}
}
