package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"casino-livesync/internal/config"
	"casino-livesync/internal/feed"
	"casino-livesync/internal/mcpserver"
	"casino-livesync/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/rs/zerolog/log"
)

// NewRouter mounts the facade's query, command and admin routes, plus the
// MCP endpoint when enabled.
func NewRouter(sess *session.Session, cfg config.ServerConfig) *chi.Mux {
	publicHandlers := NewPublicHandlers(sess)
	commandHandlers := NewCommandHandlers(sess)
	adminHandlers := NewAdminHandlers(sess)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(handlers.CORS(
			handlers.AllowedOrigins(cfg.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type", "Last-Event-ID", "Authorization", "X-Admin-Key"}),
		))
	}

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())
	if cfg.MCPEnabled {
		mcpSrv := mcpserver.New(sess)
		r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
		})
		r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", mcpSrv.Handler())
		r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", mcpSrv.Handler())
		r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", mcpSrv.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/status", publicHandlers.Status())
		r.Get("/games", publicHandlers.Games())
		r.Get("/games/{game_id}", publicHandlers.Game())
		r.Get("/games/{game_id}/chat", publicHandlers.Chat())
		r.Get("/dealers/{dealer_id}", publicHandlers.Dealer())
		r.Get("/tournaments", publicHandlers.Tournaments())
		r.Get("/promotions", publicHandlers.Promotions())
		r.Get("/events", feed.EventsHandler(sess.Feed()))

		r.Group(func(r chi.Router) {
			r.Use(BodyCaptureMiddleware(4096))
			r.Post("/games/{game_id}/join", commandHandlers.Join())
			r.Post("/games/{game_id}/leave", commandHandlers.Leave())
			r.Post("/games/{game_id}/bets", commandHandlers.Bet())
			r.Post("/games/{game_id}/chat", commandHandlers.Chat())
			r.Post("/games/{game_id}/camera", commandHandlers.Camera())
			r.Post("/games/{game_id}/quality", commandHandlers.Quality())
			r.Post("/games/{game_id}/tips", commandHandlers.Tip())
			r.Post("/tournaments/{tournament_id}/register", commandHandlers.Register())
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/admin/reconnect", adminHandlers.Reconnect())
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
