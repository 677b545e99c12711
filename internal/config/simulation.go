package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// MinTickMS is the shortest interval the cron scheduler can honour; "@every"
// rounds anything below a second up to one.
const MinTickMS = 1000

type SimulationConfig struct {
	TickMS           int     `env:"SIM_TICK_MS" envDefault:"3000"`
	Seed             int64   `env:"SIM_SEED" envDefault:"0"`
	ChatProbability  float64 `env:"SIM_CHAT_PROBABILITY" envDefault:"0.15"`
	ChurnProbability float64 `env:"SIM_CHURN_PROBABILITY" envDefault:"0.2"`
}

func (c SimulationConfig) Tick() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

func LoadSimulation() (SimulationConfig, error) {
	var cfg SimulationConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.TickMS < MinTickMS {
		return cfg, fmt.Errorf("SIM_TICK_MS=%d is below the %dms minimum", cfg.TickMS, MinTickMS)
	}
	return cfg, nil
}
