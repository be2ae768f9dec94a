// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the Abalone backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, access log).
//   - Public endpoints: "/", "/health".
//   - Room lookup: GET /rooms/{code}.
//   - Match history: GET /games/recent.
//   - Game traffic: GET /ws upgrades to a websocket (see ws.go).
//
// Notes:
//   - REST routes get JSON content type, CORS and a handler timeout; the
//     websocket route gets none of these since it outlives any timeout.
//   - Websocket upgrades accept requests without an Origin header (native
//     clients) or from CLIENT_ORIGIN.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/abalone/apps/go-server/internal/history"
	"github.com/robalobadob/abalone/apps/go-server/internal/room"
	"github.com/robalobadob/abalone/apps/go-server/internal/ticket"
)

// Recent is the read side of the match archive.
type Recent interface {
	Recent(ctx context.Context, limit int) ([]history.Game, error)
}

// Deps are the collaborators a Server needs. History may be nil.
type Deps struct {
	Rooms        *room.Registry
	Tickets      *ticket.Issuer
	History      Recent
	ClientOrigin string
}

// Server bundles the router and its collaborators.
type Server struct {
	r        *chi.Mux
	deps     Deps
	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{r: chi.NewRouter(), deps: d}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(requestLogger)

	s.r.Get("/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)
		r.Use(cors(d.ClientOrigin))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"abalone-go","endpoints":["/health","/ws","/rooms/{code}","/games/recent"]}`))
		})
		r.Get("/health", s.handleHealth)
		r.Get("/rooms/{code}", s.handleRoom)
		r.Get("/games/recent", s.handleRecent)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "rooms": s.deps.Rooms.Count()})
}

func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.deps.Rooms.Get(chi.URLParam(r, "code"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"room_not_found"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(rm.Status())
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		_, _ = w.Write([]byte(`[]`))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > history.DefaultLimit {
		limit = history.DefaultLimit
	}
	games, err := s.deps.History.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("load recent games")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"history_unavailable"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(games)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.deps.ClientOrigin == "*" || origin == s.deps.ClientOrigin
}
