package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr           string   `env:"HTTP_ADDR" envDefault:":8080"`
	MCPEnabled         bool     `env:"MCP_ENABLED" envDefault:"true"`
	CatalogPostgresDSN string   `env:"CATALOG_POSTGRES_DSN"`
	FeedBuffer         int      `env:"FEED_BUFFER" envDefault:"500"`
	AdminAPIKey        string   `env:"ADMIN_API_KEY"`
	CORSOrigins        []string `env:"CORS_ORIGINS" envSeparator:","`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
