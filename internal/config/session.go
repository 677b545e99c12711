package config

import "github.com/caarlos0/env/v11"

// SessionConfig identifies the local player the facade acts for.
type SessionConfig struct {
	PlayerID   string `env:"PLAYER_ID" envDefault:"local-player"`
	PlayerName string `env:"PLAYER_NAME" envDefault:"Guest"`
	Chips      int64  `env:"PLAYER_CHIPS" envDefault:"10000"`
	VIP        bool   `env:"PLAYER_VIP" envDefault:"false"`
}

func LoadSession() (SessionConfig, error) {
	var cfg SessionConfig
	err := env.Parse(&cfg)
	return cfg, err
}
