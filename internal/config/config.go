package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	PageAccessToken string `env:"PAGE_ACCESS_TOKEN,required"`
	VerifyToken     string `env:"VERIFICATION_TOKEN,required"`
	Port            string `env:"PORT" envDefault:"1337"`
	GraphBaseURL    string `env:"GRAPH_BASE_URL" envDefault:"https://graph.facebook.com/v2.6"`
}

func Load() (*Config, error) {
	// .env is optional — env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
