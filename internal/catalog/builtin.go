package catalog

import (
	"context"
	"time"

	"casino-livesync/internal/game"
)

// BuiltinSource serves a fixed lobby relative to the current time.
type BuiltinSource struct {
	Now func() time.Time
}

func (s BuiltinSource) Load(context.Context) (Catalog, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return Builtin(now), nil
}

func Builtin(now time.Time) Catalog {
	day := now.Truncate(24 * time.Hour)
	allDay := game.Shift{Start: day, End: day.Add(24 * time.Hour)}
	earlyShift := game.Shift{Start: day, End: day.Add(12 * time.Hour)}
	lateShift := game.Shift{Start: day.Add(12 * time.Hour), End: day.Add(24 * time.Hour)}

	dealers := []game.Dealer{
		{ID: "dealer-ana", Name: "Ana", Language: "en", Rating: 4.8, ExperienceYears: 6, Specialties: []game.GameType{game.TypeBlackjack, game.TypeBaccarat}, Shift: allDay},
		{ID: "dealer-marco", Name: "Marco", Language: "it", Rating: 4.6, ExperienceYears: 9, Specialties: []game.GameType{game.TypeRoulette}, Shift: earlyShift},
		{ID: "dealer-lin", Name: "Lin", Language: "zh", Rating: 4.9, ExperienceYears: 4, Specialties: []game.GameType{game.TypeBaccarat}, Shift: allDay},
		{ID: "dealer-sofia", Name: "Sofia", Language: "es", Rating: 4.7, ExperienceYears: 3, Specialties: []game.GameType{game.TypeRoulette, game.TypeWheel}, Shift: lateShift},
		{ID: "dealer-jon", Name: "Jon", Language: "en", Rating: 4.5, ExperienceYears: 2, Specialties: []game.GameType{game.TypeWheel, game.TypeBlackjack}, Shift: allDay},
	}

	games := []game.Game{
		{
			ID: "bj-classic", Name: "Classic Blackjack", Type: game.TypeBlackjack, Category: game.CategoryFeatured,
			DealerID: "dealer-ana", Table: game.TableLayout{Layout: "semicircle", Seats: 7, Theme: "emerald"},
			MinPlayers: 1, MaxPlayers: 7, MinBet: 10, MaxBet: 2000,
			Stream: game.StreamInfo{Cameras: []string{"main", "overhead", "dealer"}},
		},
		{
			ID: "bj-vip", Name: "VIP Blackjack", Type: game.TypeBlackjack, Category: game.CategoryVIP,
			DealerID: "dealer-jon", Table: game.TableLayout{Layout: "semicircle", Seats: 5, Theme: "noir"},
			MinPlayers: 1, MaxPlayers: 5, MinBet: 500, MaxBet: 50000,
			Stream: game.StreamInfo{Cameras: []string{"main", "overhead"}},
		},
		{
			ID: "roulette-euro", Name: "European Roulette", Type: game.TypeRoulette, Category: game.CategoryFeatured,
			DealerID: "dealer-marco", Table: game.TableLayout{Layout: "single-zero", Seats: 12, Theme: "classic"},
			MinPlayers: 1, MaxPlayers: 12, MinBet: 1, MaxBet: 5000,
			Stream: game.StreamInfo{Cameras: []string{"main", "wheel", "table"}},
		},
		{
			ID: "roulette-speed", Name: "Speed Roulette", Type: game.TypeRoulette, Category: game.CategoryPopular,
			DealerID: "dealer-sofia", Table: game.TableLayout{Layout: "single-zero", Seats: 10},
			MinPlayers: 1, MaxPlayers: 10, MinBet: 1, MaxBet: 1000,
			Stream: game.StreamInfo{Cameras: []string{"main", "wheel"}},
		},
		{
			ID: "baccarat-squeeze", Name: "Baccarat Squeeze", Type: game.TypeBaccarat, Category: game.CategoryVIP,
			DealerID: "dealer-lin", Table: game.TableLayout{Layout: "punto-banco", Seats: 7, Theme: "jade"},
			MinPlayers: 1, MaxPlayers: 7, MinBet: 100, MaxBet: 25000,
			Stream: game.StreamInfo{Cameras: []string{"main", "cards"}},
		},
		{
			ID: "baccarat-classic", Name: "Baccarat", Type: game.TypeBaccarat, Category: game.CategoryClassic,
			DealerID: "dealer-ana", Table: game.TableLayout{Layout: "punto-banco", Seats: 9},
			MinPlayers: 1, MaxPlayers: 9, MinBet: 5, MaxBet: 5000,
		},
		{
			ID: "wheel-mega", Name: "Mega Wheel", Type: game.TypeWheel, Category: game.CategoryPopular,
			DealerID: "dealer-jon", Table: game.TableLayout{Layout: "wheel-54", Seats: 20, Theme: "neon"},
			MinPlayers: 1, MaxPlayers: 20, MinBet: 1, MaxBet: 500,
			Stream: game.StreamInfo{Cameras: []string{"main", "wheel"}},
		},
	}

	tournaments := []game.Tournament{
		{
			ID: "tour-bj-weekly", Name: "Blackjack Weekly", GameType: game.TypeBlackjack, Status: game.TournamentRegistration,
			StartsAt: now.Add(30 * time.Minute), EndsAt: now.Add(3 * time.Hour),
			BuyIn: 100, PrizePool: 10000, MaxParticipants: 64, CurrentParticipants: 21, Rounds: 20,
		},
		{
			ID: "tour-roulette-sprint", Name: "Roulette Sprint", GameType: game.TypeRoulette, Status: game.TournamentActive,
			StartsAt: now.Add(-20 * time.Minute), EndsAt: now.Add(40 * time.Minute),
			BuyIn: 25, PrizePool: 2500, MaxParticipants: 32, CurrentParticipants: 32, Rounds: 15,
		},
		{
			ID: "tour-baccarat-high", Name: "Baccarat High Rollers", GameType: game.TypeBaccarat, Status: game.TournamentUpcoming,
			StartsAt: now.Add(24 * time.Hour), EndsAt: now.Add(27 * time.Hour),
			BuyIn: 1000, PrizePool: 100000, MaxParticipants: 16, Rounds: 12,
		},
	}

	promotions := []game.Promotion{
		{
			ID: "promo-happy-hour", Title: "Happy Hour", Description: "Extra chips on roulette wins.",
			GameTypes: []game.GameType{game.TypeRoulette}, BonusPercent: 10,
			ValidFrom: day, ValidUntil: day.Add(48 * time.Hour),
		},
		{
			ID: "promo-welcome", Title: "Welcome Bonus", Description: "Bonus on the first live table session.",
			BonusPercent: 100, ValidFrom: day.Add(-7 * 24 * time.Hour),
		},
	}

	return normalize(Catalog{Games: games, Dealers: dealers, Tournaments: tournaments, Promotions: promotions})
}
