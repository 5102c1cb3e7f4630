package config

import "github.com/caarlos0/env/v11"

type ClientConfig struct {
	ServerURL string `env:"GM_SERVER_URL" envDefault:"http://localhost:8080"`
	UserID    string `env:"GM_USER_ID" envDefault:"player"`
	ChannelID string `env:"GM_CHANNEL_ID" envDefault:"cli"`
}

func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	err := env.Parse(&cfg)
	return cfg, err
}
