package illustration

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nexus-gm/internal/config"
)

// ConfigFromServer enables pushing when a webhook URL or a targets list is
// configured.
func ConfigFromServer(cfg config.ServerConfig) (Config, error) {
	out := Config{
		Workers:             cfg.IllustrationWorkers,
		RetryMax:            cfg.IllustrationRetryMax,
		RetryBase:           time.Duration(cfg.IllustrationRetryBaseMS) * time.Millisecond,
		FailureThreshold:    3,
		CircuitOpenDuration: 30 * time.Second,
		RequestTimeout:      5 * time.Second,
		DispatchBuffer:      256,
	}
	if out.Workers <= 0 {
		out.Workers = 2
	}
	if out.RetryMax < 0 {
		out.RetryMax = 0
	}
	if out.RetryBase <= 0 {
		out.RetryBase = 500 * time.Millisecond
	}

	if raw := strings.TrimSpace(cfg.IllustrationTargetsJSON); raw != "" {
		targets, err := parseTargetsJSON(raw)
		if err != nil {
			return Config{}, err
		}
		out.Targets = targets
	}
	if url := strings.TrimSpace(cfg.IllustrationWebhookURL); url != "" {
		out.Targets = append(out.Targets, Target{
			Platform: normalizePlatform(cfg.IllustrationPlatform),
			Endpoint: url,
			Secret:   cfg.IllustrationSecret,
			Enabled:  true,
		})
	}
	out.Enabled = len(out.Targets) > 0
	return out, nil
}

func parseTargetsJSON(raw string) ([]Target, error) {
	var targets []Target
	if err := json.Unmarshal([]byte(raw), &targets); err != nil {
		return nil, fmt.Errorf("parse illustration targets: %w", err)
	}
	filtered := make([]Target, 0, len(targets))
	for _, t := range targets {
		t.Platform = normalizePlatform(t.Platform)
		t.Endpoint = strings.TrimSpace(t.Endpoint)
		if t.Endpoint == "" || !t.Enabled {
			continue
		}
		for i := range t.Moments {
			t.Moments[i] = strings.ToLower(strings.TrimSpace(t.Moments[i]))
		}
		filtered = append(filtered, t)
	}
	return filtered, nil
}

func normalizePlatform(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return "webhook"
	}
	return p
}
