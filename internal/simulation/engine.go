package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"casino-livesync/internal/catalog"
	"casino-livesync/internal/config"
	"casino-livesync/internal/protocol"
	"casino-livesync/internal/state"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
)

// Applier is the single write path the engine feeds.
type Applier interface {
	Apply(ev protocol.Event) bool
}

// Engine generates authority-shaped events while no authority is reachable.
type Engine struct {
	cfg     config.SimulationConfig
	store   *state.Store
	applier Applier
	source  catalog.Source
	now     func() time.Time

	tickMu sync.Mutex
	rnd    *rand.Rand
	ticks  int64

	mu    sync.Mutex
	sched *cron.Cron
}

func NewEngine(cfg config.SimulationConfig, store *state.Store, applier Applier, source catalog.Source) *Engine {
	if cfg.TickMS <= 0 {
		cfg.TickMS = 3000
	}
	if cfg.TickMS < config.MinTickMS {
		cfg.TickMS = config.MinTickMS
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if source == nil {
		source = catalog.BuiltinSource{}
	}
	return &Engine{
		cfg:     cfg,
		store:   store,
		applier: applier,
		source:  source,
		now:     time.Now,
		rnd:     rand.New(rand.NewSource(seed)),
	}
}

// Seed loads the catalog into an empty store. A failing source falls back
// to the builtin lobby.
func (e *Engine) Seed(ctx context.Context) error {
	if !e.store.Empty() {
		return nil
	}
	now := e.now()
	c, err := e.source.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog_load_failed_using_builtin")
		c = catalog.Builtin(now)
	}
	for _, d := range c.Dealers {
		d.IsOnline = d.Shift.Covers(now)
		e.applier.Apply(protocol.DealerUpdate{Dealer: d})
	}
	for _, g := range c.Games {
		e.applier.Apply(protocol.GameUpdate{Game: g})
	}
	for _, t := range c.Tournaments {
		e.applier.Apply(protocol.TournamentUpdate{Tournament: t})
	}
	var promos = c.Promotions[:0:0]
	for _, p := range c.Promotions {
		if p.ActiveAt(now) {
			promos = append(promos, p)
		}
	}
	e.applier.Apply(protocol.PromotionUpdate{Promotions: promos})
	if e.store.Empty() {
		return fmt.Errorf("simulation: seed: %w", catalog.ErrEmptyCatalog)
	}
	log.Info().
		Int("games", len(c.Games)).
		Int("dealers", len(c.Dealers)).
		Int("tournaments", len(c.Tournaments)).
		Msg("simulation_seeded")
	return nil
}

// Start seeds if needed and schedules Tick. Calling Start on a running
// engine is a no-op.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sched != nil {
		return nil
	}
	if err := e.Seed(ctx); err != nil {
		return err
	}
	c := cron.New()
	if _, err := c.AddFunc("@every "+e.cfg.Tick().String(), e.Tick); err != nil {
		return fmt.Errorf("simulation: schedule: %w", err)
	}
	c.Start()
	e.sched = c
	metricRunning.Set(1)
	log.Info().Dur("tick", e.cfg.Tick()).Msg("simulation_started")
	return nil
}

// Stop unschedules the engine and waits for an in-flight tick, so no
// simulated event is applied after it returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	c := e.sched
	e.sched = nil
	e.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	metricRunning.Set(0)
	log.Info().Msg("simulation_stopped")
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched != nil
}

func (e *Engine) Ticks() int64 {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	return e.ticks
}

// Tick plans every game in parallel from one store snapshot, then applies
// the plans in game id order.
func (e *Engine) Tick() {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	now := e.now()
	games := e.store.Games()
	dealers := e.store.Dealers()
	names := make(map[string]string, len(dealers))
	for _, d := range dealers {
		names[d.ID] = d.Name
	}

	jobs := make([]planJob, len(games))
	for i, g := range games {
		jobs[i] = planJob{game: g, dealerName: names[g.DealerID], seed: e.rnd.Int63()}
	}
	p := planner{cfg: e.cfg, now: now}
	plans := iter.Map(jobs, func(j *planJob) []protocol.Event {
		return p.plan(j.game, j.dealerName, rand.New(rand.NewSource(j.seed)))
	})

	applied := 0
	dealt := map[string]int64{}
	for i, evs := range plans {
		for _, ev := range evs {
			if !e.applier.Apply(ev) {
				continue
			}
			applied++
			if _, ok := ev.(protocol.RoundEnd); ok {
				dealt[games[i].DealerID]++
			}
		}
	}
	lobby := planDealers(dealers, dealt, now)
	lobby = append(lobby, planTournaments(e.store.Tournaments(), e.cfg.ChurnProbability, now, e.rnd)...)
	for _, ev := range lobby {
		if e.applier.Apply(ev) {
			applied++
		}
	}

	e.ticks++
	metricTicks.Add(1)
	metricEventsApplied.Add(int64(applied))
	log.Debug().Int64("tick", e.ticks).Int("applied", applied).Msg("simulation_tick")
}
