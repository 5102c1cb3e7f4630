// Package illustration pushes key-moment image requests to webhooks in the
// background, with retries and a per-target circuit breaker.
package illustration

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"nexus-gm/internal/illustration/platforms"
)

type breakerState struct {
	consecutiveFailures int
	openUntil           time.Time
}

type Manager struct {
	cfg      Config
	adapters map[string]platforms.Adapter

	dispatchCh chan pushJob
	retryQ     *retryQueue
	done       chan struct{}

	mu           sync.Mutex
	started      bool
	breakerByKey map[string]breakerState
}

func NewManager(cfg Config) *Manager {
	client := platforms.NewHTTPClient(cfg.RequestTimeout)
	return newManager(cfg, map[string]platforms.Adapter{
		"discord": platforms.NewDiscordAdapter(client),
		"webhook": platforms.NewWebhookAdapter(client),
	})
}

func newManager(cfg Config, adapters map[string]platforms.Adapter) *Manager {
	if cfg.DispatchBuffer <= 0 {
		cfg.DispatchBuffer = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.CircuitOpenDuration <= 0 {
		cfg.CircuitOpenDuration = 30 * time.Second
	}
	m := &Manager{
		cfg:          cfg,
		adapters:     adapters,
		dispatchCh:   make(chan pushJob, cfg.DispatchBuffer),
		done:         make(chan struct{}),
		breakerByKey: map[string]breakerState{},
	}
	m.retryQ = newRetryQueue(m.dispatchCh, m.done)
	return m
}

func (m *Manager) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		return nil
	}
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	m.mu.Unlock()

	for i := 0; i < m.cfg.Workers; i++ {
		go m.worker(ctx)
	}
	go func() {
		<-ctx.Done()
		close(m.done)
	}()
	log.Info().Int("targets", len(m.cfg.Targets)).Int("workers", m.cfg.Workers).Msg("illustration push started")
	return nil
}

// Enqueue fans req out to every matching target. It never blocks; a full
// queue drops the job.
func (m *Manager) Enqueue(req Request) bool {
	if !m.cfg.Enabled {
		return false
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	queued := false
	for _, target := range m.cfg.Targets {
		if !target.accepts(req.Moment) {
			continue
		}
		if m.enqueue(pushJob{Target: target, Request: req}) {
			queued = true
		} else {
			metricDroppedTotal.Add(1)
			log.Warn().Str("session_id", req.SessionID).Str("platform", target.Platform).Msg("illustration queue full, dropping")
		}
	}
	return queued
}

func (m *Manager) enqueue(job pushJob) bool {
	select {
	case <-m.done:
		return false
	case m.dispatchCh <- job:
		metricQueuedTotal.Add(1)
		metricQueueLen.Set(int64(len(m.dispatchCh)))
		return true
	default:
		return false
	}
}
