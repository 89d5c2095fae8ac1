// Package fakeapi serves a canned OpenF1 season over HTTP. It backs the
// service tests and the fake-upstream development command, so the whole
// pipeline can run without touching the real API.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/avolkov/paddock/internal/adapters/openf1"
)

// Server holds fixture data for the four upstream endpoints.
type Server struct {
	mu        sync.RWMutex
	sessions  []openf1.Session
	drivers   map[int][]openf1.Driver
	results   map[int][]openf1.SessionResult
	positions map[int][]openf1.Position
}

// New creates an empty fixture server.
func New() *Server {
	return &Server{
		drivers:   make(map[int][]openf1.Driver),
		results:   make(map[int][]openf1.SessionResult),
		positions: make(map[int][]openf1.Position),
	}
}

// SetSessions replaces the season session list.
func (s *Server) SetSessions(sessions []openf1.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = sessions
}

// SetDrivers sets the roster of one session.
func (s *Server) SetDrivers(sessionKey int, drivers []openf1.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[sessionKey] = drivers
}

// SetResults sets the official classification of one session. An absent or
// empty entry makes the session fall back to position samples.
func (s *Server) SetResults(sessionKey int, results []openf1.SessionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[sessionKey] = results
}

// SetPositions sets the raw position samples of one session.
func (s *Server) SetPositions(sessionKey int, positions []openf1.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[sessionKey] = positions
}

// Handler returns the HTTP handler implementing the upstream endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		year, _ := strconv.Atoi(r.URL.Query().Get("year"))
		out := make([]openf1.Session, 0, len(s.sessions))
		for _, sess := range s.sessions {
			if year == 0 || sess.Year == year {
				out = append(out, sess)
			}
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("/drivers", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		writeJSON(w, orEmpty(s.drivers[sessionKey(r)]))
	})
	mux.HandleFunc("/session_result", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		writeJSON(w, orEmpty(s.results[sessionKey(r)]))
	})
	mux.HandleFunc("/position", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		writeJSON(w, orEmpty(s.positions[sessionKey(r)]))
	})
	return mux
}

func sessionKey(r *http.Request) int {
	key, _ := strconv.Atoi(r.URL.Query().Get("session_key"))
	return key
}

func orEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
