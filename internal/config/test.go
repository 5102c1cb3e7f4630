package config

import "github.com/caarlos0/env/v11"

// IntegrationConfig gates tests that need a live Postgres.
type IntegrationConfig struct {
	PostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
}

func LoadIntegration() (IntegrationConfig, error) {
	var cfg IntegrationConfig
	err := env.Parse(&cfg)
	return cfg, err
}
