package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	EventRetention       int           `env:"SESSION_EVENT_RETENTION" envDefault:"500"`
	MaxIdleHours         int           `env:"SESSION_MAX_IDLE_HOURS" envDefault:"24"`
	JanitorInterval      time.Duration `env:"JANITOR_INTERVAL" envDefault:"10m"`
	PermissiveCharacters bool          `env:"PERMISSIVE_CHARACTERS" envDefault:"false"`
	// DiceSeed makes rolls reproducible when non-zero.
	DiceSeed int64 `env:"DICE_SEED" envDefault:"0"`

	// Optional collaborators; empty disables them.
	PostgresDSN            string `env:"POSTGRES_DSN"`
	MemoryDir              string `env:"MEMORY_DIR"`
	IllustrationWebhookURL string `env:"ILLUSTRATION_WEBHOOK_URL"`

	IllustrationPlatform    string `env:"ILLUSTRATION_PLATFORM" envDefault:"webhook"`
	IllustrationSecret      string `env:"ILLUSTRATION_SECRET"`
	IllustrationTargetsJSON string `env:"ILLUSTRATION_TARGETS_JSON"`
	IllustrationWorkers     int    `env:"ILLUSTRATION_WORKERS" envDefault:"2"`
	IllustrationRetryMax    int    `env:"ILLUSTRATION_RETRY_MAX" envDefault:"3"`
	IllustrationRetryBaseMS int    `env:"ILLUSTRATION_RETRY_BASE_MS" envDefault:"500"`
}

func (c ServerConfig) MaxIdle() time.Duration {
	return time.Duration(c.MaxIdleHours) * time.Hour
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
