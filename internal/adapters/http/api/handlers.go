package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleResults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.RaceResults())
}

func (s *Server) handleDriverResults(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_name", ErrMissingName)
		return
	}
	results := s.provider.DriverResults(name)
	if len(results) == 0 {
		writeError(w, http.StatusNotFound, "driver_not_found", ErrDriverNotFound)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleQualifying(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.QualifyingResults())
}

func (s *Server) handleDrivers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.Drivers())
}

func (s *Server) handleDriverProfile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_name", ErrMissingName)
		return
	}
	profile, ok := s.provider.DriverProfile(name)
	if !ok {
		writeError(w, http.StatusNotFound, "driver_not_found", ErrDriverNotFound)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleTracks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.Tracks())
}

func (s *Server) handleCurrentTeam(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "bad_number", ErrBadNumber)
		return
	}
	team, ok := s.provider.CurrentTeam(number)
	if !ok {
		writeError(w, http.StatusNotFound, "driver_not_found", ErrDriverNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"driver_number": number, "team": team})
}

func (s *Server) handleDriverStandings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.DriverStandings())
}

func (s *Server) handleTeamStandings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.TeamStandings())
}
