package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"nexus-gm/internal/config"
	"nexus-gm/internal/gm"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Engine *gm.Engine
	Config config.ServerConfig
	// MCP is mounted at /mcp when set.
	MCP       http.Handler
	Snapshots SnapshotStore
	Pinger    Pinger
	// Memory enables the per-user recall reset.
	Memory MemoryStore
}

func NewRouter(d Deps) *chi.Mux {
	game := NewGameHandlers(d.Engine)
	admin := NewAdminHandlers(d.Engine, d.Snapshots, d.Pinger, d.Memory)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", admin.Health())
	if d.MCP != nil {
		r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
		})
		r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", d.MCP)
		r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", d.MCP)
		r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", d.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Post("/sessions", game.CreateSession())
		r.Get("/sessions/lookup", game.Lookup())

		r.Route("/sessions/{session_id}", func(r chi.Router) {
			r.Post("/players", game.Join())
			r.Post("/characters", game.CreateCharacter())
			r.Get("/characters/{user_id}", game.Character())
			r.Post("/begin", game.Begin())
			r.Post("/actions", game.Action())
			r.Post("/rolls", game.Roll())
			r.Post("/recover", game.Recover())
			r.Post("/damage", game.Damage())
			r.Post("/intrusions", game.Intrusion())
			r.Post("/intrusions/accept", game.AcceptIntrusion())
			r.Post("/cyphers", game.GrantCypher())
			r.Post("/cyphers/use", game.UseCypher())
			r.Post("/npcs", game.AddNPC())
			r.Post("/locations", game.AddLocation())
			r.Post("/items", game.GrantItem())
			r.Get("/status", game.Status())
			r.Post("/pause", game.Pause())
			r.Post("/resume", game.Resume())
			r.Delete("/", game.End())
			r.With(AdminAuthMiddleware(d.Config.AdminAPIKey)).Get("/export", admin.Export())
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(d.Config.AdminAPIKey))
			r.Post("/sessions/import", admin.Import())
			r.Get("/snapshots", admin.Snapshots())
			r.Get("/snapshots/{session_id}", admin.Snapshot())
			r.Post("/snapshots/{session_id}/restore", admin.Restore())
			r.Delete("/memory/{user_id}", admin.ForgetMemory())
			r.Get("/debug/vars", expvar.Handler().ServeHTTP)
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
