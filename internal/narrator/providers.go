package narrator

import (
	"strings"

	"github.com/rs/zerolog/log"

	"nexus-gm/internal/config"
)

const ollamaPlaceholderKey = "ollama"

// Providers builds the backends in fallback order: local Ollama first, then
// xAI and OpenAI when their keys are configured.
func Providers(cfg config.NarratorConfig) []Narrator {
	var out []Narrator
	if cfg.OllamaURL != "" {
		out = append(out, NewOpenAICompat(ProviderConfig{
			Name:        "ollama",
			BaseURL:     strings.TrimRight(cfg.OllamaURL, "/") + "/v1",
			APIKey:      ollamaPlaceholderKey,
			Model:       cfg.OllamaModel,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}))
	}
	if cfg.XAIAPIKey != "" {
		out = append(out, NewOpenAICompat(ProviderConfig{
			Name:        "xai",
			BaseURL:     cfg.XAIURL,
			APIKey:      cfg.XAIAPIKey,
			Model:       cfg.XAIModel,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
			MaxRetries:  1,
		}))
	}
	if cfg.OpenAIAPIKey != "" {
		out = append(out, NewOpenAICompat(ProviderConfig{
			Name:        "openai",
			BaseURL:     cfg.OpenAIURL,
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
			MaxRetries:  1,
		}))
	}
	return out
}

// New assembles the narrator stack: provider chain, rate limit, then
// optional memory enrichment.
func New(cfg config.NarratorConfig, recall Recall) Narrator {
	providers := Providers(cfg)
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, nameOf(p))
	}
	log.Info().Strs("providers", names).Float64("rps", cfg.RPS).Bool("memory", recall != nil).Msg("narrator configured")

	var n Narrator = NewLimited(NewChain(providers...), cfg.RPS, cfg.Burst)
	return WithMemory(n, recall)
}
