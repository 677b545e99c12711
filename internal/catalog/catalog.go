package catalog

import (
	"context"
	"errors"

	"casino-livesync/internal/game"
)

var ErrEmptyCatalog = errors.New("empty_catalog")

// Catalog is the seed data the simulation starts from.
type Catalog struct {
	Games       []game.Game
	Dealers     []game.Dealer
	Tournaments []game.Tournament
	Promotions  []game.Promotion
}

type Source interface {
	Load(ctx context.Context) (Catalog, error)
}

// normalize fills defaults every table needs before it reaches the store.
func normalize(c Catalog) Catalog {
	for i := range c.Games {
		g := &c.Games[i]
		if g.Status == "" {
			g.Status = game.StatusActive
		}
		if g.Table.Seats < g.MaxPlayers {
			g.Table.Seats = g.MaxPlayers
		}
		if len(g.Stream.Cameras) == 0 {
			g.Stream.Cameras = []string{"main"}
		}
		if g.Stream.CameraID == "" {
			g.Stream.CameraID = g.Stream.Cameras[0]
		}
		if g.Stream.Quality == "" {
			g.Stream.Quality = game.QualityAuto
		}
		if g.Category == game.CategoryVIP {
			g.IsVIP = true
		}
		if g.Players == nil {
			g.Players = []game.Player{}
		}
		if g.History == nil {
			g.History = []game.GameResult{}
		}
	}
	for i := range c.Tournaments {
		if c.Tournaments[i].Leaderboard == nil {
			c.Tournaments[i].Leaderboard = []game.LeaderboardEntry{}
		}
	}
	return c
}
