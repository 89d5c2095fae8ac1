// Package api exposes the read-only HTTP surface over the committed season
// snapshot. It never mutates anything; all writes happen inside the
// aggregation pass.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avolkov/paddock/internal/app"
	"github.com/avolkov/paddock/internal/domain/model"
	"github.com/avolkov/paddock/internal/domain/standings"
	"github.com/avolkov/paddock/pkg/metrics"
)

// Provider is the slice of the aggregator service the handlers consume.
type Provider interface {
	Ready() bool
	RaceResults() []model.SessionResult
	DriverResults(name string) []model.SessionResult
	QualifyingResults() []model.QualifyingResult
	Drivers() []string
	Tracks() []string
	CurrentTeam(number int) (string, bool)
	DriverStandings() []standings.DriverStanding
	TeamStandings() []standings.TeamStanding
	DriverProfile(name string) (standings.DriverProfile, bool)
	CurrentStatus() app.Status
}

// Server wires the HTTP routes for the read API.
type Server struct {
	provider       Provider
	allowedOrigins []string
}

// NewServer creates an API server over the given provider.
func NewServer(provider Provider, opts ...Option) *Server {
	s := &Server{
		provider:       provider,
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", instrument("healthz", s.handleHealth))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", instrument("status", s.handleStatus))

		r.Group(func(r chi.Router) {
			r.Use(s.requireReady)
			r.Get("/results", instrument("results", s.handleResults))
			r.Get("/results/driver", instrument("driver_results", s.handleDriverResults))
			r.Get("/qualifying", instrument("qualifying", s.handleQualifying))
			r.Get("/drivers", instrument("drivers", s.handleDrivers))
			r.Get("/drivers/profile", instrument("driver_profile", s.handleDriverProfile))
			r.Get("/tracks", instrument("tracks", s.handleTracks))
			r.Get("/teams/current/{number}", instrument("current_team", s.handleCurrentTeam))
			r.Get("/standings/drivers", instrument("driver_standings", s.handleDriverStandings))
			r.Get("/standings/teams", instrument("team_standings", s.handleTeamStandings))
		})
	})
	return r
}

// requireReady answers 503 until the first non-empty snapshot is committed.
func (s *Server) requireReady(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.provider.Ready() {
			writeError(w, http.StatusServiceUnavailable, "not_ready", ErrNotReady)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.CurrentStatus())
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
