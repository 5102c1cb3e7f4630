package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type NarratorConfig struct {
	OllamaURL   string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel string `env:"OLLAMA_MODEL" envDefault:"mistral:7b"`

	// xAI and OpenAI join the fallback chain only when a key is set.
	XAIURL    string `env:"XAI_URL" envDefault:"https://api.x.ai/v1"`
	XAIAPIKey string `env:"XAI_API_KEY"`
	XAIModel  string `env:"XAI_MODEL" envDefault:"grok-beta"`

	OpenAIURL    string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	Timeout     time.Duration `env:"NARRATOR_TIMEOUT" envDefault:"60s"`
	RPS         float64       `env:"NARRATOR_RPS" envDefault:"2"`
	Burst       int           `env:"NARRATOR_BURST" envDefault:"4"`
	Temperature float64       `env:"NARRATOR_TEMPERATURE" envDefault:"0.8"`
}

func LoadNarrator() (NarratorConfig, error) {
	var cfg NarratorConfig
	err := env.Parse(&cfg)
	return cfg, err
}
