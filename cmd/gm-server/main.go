package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"nexus-gm/internal/character"
	"nexus-gm/internal/config"
	"nexus-gm/internal/gm"
	"nexus-gm/internal/illustration"
	"nexus-gm/internal/logging"
	"nexus-gm/internal/mcpserver"
	"nexus-gm/internal/memory"
	"nexus-gm/internal/narrator"
	"nexus-gm/internal/rules"
	"nexus-gm/internal/session"
	"nexus-gm/internal/store"
	httptransport "nexus-gm/internal/transport/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	app, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(app.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logging.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

type components struct {
	engine        *gm.Engine
	router        *chi.Mux
	snapshotter   gm.Snapshotter
	illustrations *illustration.Manager
	snapshots     *store.Store
	memory        *memory.Store
}

func (c *components) close() {
	if c.snapshots != nil {
		c.snapshots.Close()
	}
	if c.memory != nil {
		if err := c.memory.Close(); err != nil {
			log.Warn().Err(err).Msg("memory close failed")
		}
	}
}

// build wires every collaborator from config. Postgres, memory and
// illustration push are each optional.
func build(ctx context.Context, app config.AppConfig) (*components, error) {
	cfg := app.Server
	c := &components{}

	var recall narrator.Recall
	var forgetter httptransport.MemoryStore
	if cfg.MemoryDir != "" {
		mem, err := memory.New(memory.Config{DataDir: filepath.Clean(cfg.MemoryDir)})
		if err != nil {
			return nil, err
		}
		c.memory = mem
		recall, forgetter = mem, mem
	}

	var pinger httptransport.Pinger
	var snapshots httptransport.SnapshotStore
	if cfg.PostgresDSN != "" {
		st, err := store.New(cfg.PostgresDSN)
		if err != nil {
			c.close()
			return nil, err
		}
		if err := st.Ping(ctx); err != nil {
			st.Close()
			c.close()
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			c.close()
			return nil, err
		}
		c.snapshots = st
		pinger, snapshots, c.snapshotter = st, st, st
	} else {
		log.Info().Msg("POSTGRES_DSN not set; session snapshots disabled")
	}

	illCfg, err := illustration.ConfigFromServer(cfg)
	if err != nil {
		c.close()
		return nil, err
	}
	c.illustrations = illustration.NewManager(illCfg)

	c.engine = gm.New(gm.Deps{
		Store:           session.NewStore(session.Options{EventRetention: cfg.EventRetention}),
		Rules:           rules.NewEngine(newRoller(cfg.DiceSeed)),
		Narrator:        narrator.New(app.Narrator, recall),
		Builder:         character.Builder{Permissive: cfg.PermissiveCharacters},
		Illustrations:   c.illustrations,
		Snapshots:       c.snapshotter,
		NarratorTimeout: app.Narrator.Timeout,
	})

	mcpSrv := mcpserver.New(c.engine)
	c.router = httptransport.NewRouter(httptransport.Deps{
		Engine:    c.engine,
		Config:    cfg,
		MCP:       mcpSrv.Handler(),
		Snapshots: snapshots,
		Pinger:    pinger,
		Memory:    forgetter,
	})
	return c, nil
}

func run(ctx context.Context, app config.AppConfig) error {
	c, err := build(ctx, app)
	if err != nil {
		return err
	}
	defer c.close()

	cfg := app.Server
	if err := c.illustrations.Start(ctx); err != nil {
		return err
	}
	c.engine.StartJanitor(ctx, cfg.JanitorInterval, cfg.MaxIdle(), c.snapshotter)

	httptransport.LogRoutes(c.router)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           c.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Narrator calls can run for the full narrator timeout.
		WriteTimeout: app.Narrator.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRoller(seed int64) rules.Roller {
	if seed != 0 {
		log.Info().Int64("seed", seed).Msg("dice seeded")
		return rules.NewSeededRoller(seed)
	}
	return rules.NewRandomRoller()
}
