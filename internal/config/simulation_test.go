package config

import (
	"testing"
	"time"
)

func TestLoadSimulationDefaults(t *testing.T) {
	cfg, err := LoadSimulation()
	if err != nil {
		t.Fatalf("LoadSimulation() error = %v", err)
	}
	if cfg.Tick() != 3*time.Second {
		t.Fatalf("Tick = %v, want 3s", cfg.Tick())
	}
	if cfg.Seed != 0 {
		t.Fatalf("Seed = %d, want 0", cfg.Seed)
	}
	if cfg.ChatProbability != 0.15 || cfg.ChurnProbability != 0.2 {
		t.Fatalf("unexpected probabilities: %+v", cfg)
	}
}

func TestLoadSimulationParse(t *testing.T) {
	t.Setenv("SIM_TICK_MS", "1500")
	t.Setenv("SIM_SEED", "42")

	cfg, err := LoadSimulation()
	if err != nil {
		t.Fatalf("LoadSimulation() error = %v", err)
	}
	if cfg.Tick() != 1500*time.Millisecond || cfg.Seed != 42 {
		t.Fatalf("unexpected simulation config: %+v", cfg)
	}
}

func TestLoadSimulationRejectsSubSecondTick(t *testing.T) {
	t.Setenv("SIM_TICK_MS", "500")

	if _, err := LoadSimulation(); err == nil {
		t.Fatal("LoadSimulation() error = nil, want tick minimum error")
	}
}
