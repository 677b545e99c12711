package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type UplinkConfig struct {
	URL                string `env:"AUTHORITY_URL"`
	RetryMax           int    `env:"AUTHORITY_RETRY_MAX" envDefault:"5"`
	RetryBaseMS        int    `env:"AUTHORITY_RETRY_BASE_MS" envDefault:"500"`
	RetryCap           int    `env:"AUTHORITY_RETRY_CAP" envDefault:"32"`
	HandshakeTimeoutMS int    `env:"AUTHORITY_HANDSHAKE_TIMEOUT_MS" envDefault:"5000"`
	TokenSecret        string `env:"AUTHORITY_TOKEN_SECRET"`
	TokenTTLSec        int    `env:"AUTHORITY_TOKEN_TTL_SEC" envDefault:"300"`
	SendBuffer         int    `env:"AUTHORITY_SEND_BUFFER" envDefault:"64"`
}

func (c UplinkConfig) RetryBase() time.Duration {
	return time.Duration(c.RetryBaseMS) * time.Millisecond
}

func (c UplinkConfig) HandshakeTimeout() time.Duration {
	return time.Duration(c.HandshakeTimeoutMS) * time.Millisecond
}

func (c UplinkConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSec) * time.Second
}

func LoadUplink() (UplinkConfig, error) {
	var cfg UplinkConfig
	err := env.Parse(&cfg)
	return cfg, err
}
