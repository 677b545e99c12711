package state

import (
	"testing"

	"casino-livesync/internal/game"
	"casino-livesync/internal/protocol"
)

func TestStoreIndexesAndCopies(t *testing.T) {
	d, _ := newTestDispatcher(t)
	d.Apply(protocol.GameUpdate{Game: game.Game{ID: "b", Type: game.TypeBlackjack, Status: game.StatusActive, MaxPlayers: 7}})
	d.Apply(protocol.GameUpdate{Game: game.Game{ID: "a", Type: game.TypeRoulette, Status: game.StatusBreak, MaxPlayers: 7}})
	d.Apply(protocol.DealerUpdate{Dealer: game.Dealer{ID: "d1", Name: "Dana"}})
	d.Apply(protocol.TournamentUpdate{Tournament: game.Tournament{ID: "t1", Status: game.TournamentRegistration}})
	d.Apply(protocol.TournamentUpdate{Tournament: game.Tournament{ID: "t2", Status: game.TournamentFinished}})
	d.Apply(protocol.PromotionUpdate{Promotions: []game.Promotion{{ID: "p1"}}})

	st := d.Store()
	games := st.Games()
	if len(games) != 2 || games[0].ID != "a" || games[1].ID != "b" {
		t.Fatalf("Games() not ordered by id: %+v", games)
	}
	if got := st.GamesByType(game.TypeBlackjack); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("GamesByType = %+v", got)
	}
	if got := st.GamesByStatus(game.StatusBreak); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("GamesByStatus = %+v", got)
	}
	if got := st.Tournaments(game.TournamentRegistration); len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("Tournaments(registration) = %+v", got)
	}
	if got := st.Tournaments(); len(got) != 2 {
		t.Fatalf("Tournaments() = %d, want 2", len(got))
	}

	g, _ := st.Game("a")
	g.Name = "mutated"
	if again, _ := st.Game("a"); again.Name == "mutated" {
		t.Fatal("Game() returned a shared pointer")
	}

	stats := st.Stats()
	if stats.Games != 2 || stats.Dealers != 1 || stats.Tournaments != 2 || stats.Promotions != 1 {
		t.Fatalf("Stats() = %+v", stats)
	}
	if st.Empty() {
		t.Fatal("Empty() = true on populated store")
	}
}
