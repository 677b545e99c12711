package config

import "github.com/caarlos0/env/v11"

// AuthorityConfig drives cmd/mock-authority.
type AuthorityConfig struct {
	Addr         string `env:"AUTHORITY_ADDR" envDefault:":9090"`
	TokenSecret  string `env:"AUTHORITY_TOKEN_SECRET"`
	PlayerChips  int64  `env:"AUTHORITY_PLAYER_CHIPS" envDefault:"10000"`
	ClientBuffer int    `env:"AUTHORITY_CLIENT_BUFFER" envDefault:"256"`
}

func LoadAuthority() (AuthorityConfig, error) {
	var cfg AuthorityConfig
	err := env.Parse(&cfg)
	return cfg, err
}
