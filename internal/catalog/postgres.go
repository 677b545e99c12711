package catalog

import (
	"context"
	"fmt"
	"time"

	"casino-livesync/internal/game"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads the catalog tables. It never writes.
type PostgresSource struct {
	Pool *pgxpool.Pool
}

func NewPostgresSource(ctx context.Context, dsn string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open pool: %w", err)
	}
	return &PostgresSource{Pool: pool}, nil
}

func (s *PostgresSource) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

func (s *PostgresSource) Load(ctx context.Context) (Catalog, error) {
	var c Catalog
	var err error
	if c.Dealers, err = s.loadDealers(ctx); err != nil {
		return Catalog{}, err
	}
	if c.Games, err = s.loadGames(ctx); err != nil {
		return Catalog{}, err
	}
	if c.Tournaments, err = s.loadTournaments(ctx); err != nil {
		return Catalog{}, err
	}
	if c.Promotions, err = s.loadPromotions(ctx); err != nil {
		return Catalog{}, err
	}
	if len(c.Games) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}
	return normalize(c), nil
}

func (s *PostgresSource) loadDealers(ctx context.Context) ([]game.Dealer, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, language, rating, experience_years, specialties, shift_start, shift_end
		FROM catalog_dealers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query dealers: %w", err)
	}
	defer rows.Close()
	var out []game.Dealer
	for rows.Next() {
		var d game.Dealer
		var specialties []string
		var start, end *time.Time
		if err := rows.Scan(&d.ID, &d.Name, &d.Language, &d.Rating, &d.ExperienceYears, &specialties, &start, &end); err != nil {
			return nil, fmt.Errorf("catalog: scan dealer: %w", err)
		}
		d.Specialties = toGameTypes(specialties)
		if start != nil && end != nil {
			d.Shift = game.Shift{Start: *start, End: *end}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresSource) loadGames(ctx context.Context) ([]game.Game, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, game_type, category, is_vip, COALESCE(dealer_id, ''), layout, seats, theme,
		       min_players, max_players, min_bet, max_bet, cameras
		FROM catalog_games ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query games: %w", err)
	}
	defer rows.Close()
	var out []game.Game
	for rows.Next() {
		var g game.Game
		var typ, category string
		if err := rows.Scan(&g.ID, &g.Name, &typ, &category, &g.IsVIP, &g.DealerID, &g.Table.Layout, &g.Table.Seats,
			&g.Table.Theme, &g.MinPlayers, &g.MaxPlayers, &g.MinBet, &g.MaxBet, &g.Stream.Cameras); err != nil {
			return nil, fmt.Errorf("catalog: scan game: %w", err)
		}
		g.Type = game.GameType(typ)
		if !g.Type.Valid() {
			return nil, fmt.Errorf("catalog: game %s: unknown type %q", g.ID, typ)
		}
		g.Category = game.Category(category)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *PostgresSource) loadTournaments(ctx context.Context) ([]game.Tournament, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, game_type, status, starts_at, ends_at, buy_in, prize_pool,
		       max_participants, current_participants, rounds
		FROM catalog_tournaments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query tournaments: %w", err)
	}
	defer rows.Close()
	var out []game.Tournament
	for rows.Next() {
		var t game.Tournament
		var typ, status string
		if err := rows.Scan(&t.ID, &t.Name, &typ, &status, &t.StartsAt, &t.EndsAt, &t.BuyIn, &t.PrizePool,
			&t.MaxParticipants, &t.CurrentParticipants, &t.Rounds); err != nil {
			return nil, fmt.Errorf("catalog: scan tournament: %w", err)
		}
		t.GameType = game.GameType(typ)
		t.Status = game.TournamentStatus(status)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresSource) loadPromotions(ctx context.Context) ([]game.Promotion, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, title, description, game_types, bonus_percent, valid_from, valid_until
		FROM catalog_promotions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query promotions: %w", err)
	}
	defer rows.Close()
	var out []game.Promotion
	for rows.Next() {
		var p game.Promotion
		var types []string
		var until *time.Time
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &types, &p.BonusPercent, &p.ValidFrom, &until); err != nil {
			return nil, fmt.Errorf("catalog: scan promotion: %w", err)
		}
		p.GameTypes = toGameTypes(types)
		if until != nil {
			p.ValidUntil = *until
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func toGameTypes(in []string) []game.GameType {
	out := make([]game.GameType, 0, len(in))
	for _, s := range in {
		out = append(out, game.GameType(s))
	}
	return out
}
