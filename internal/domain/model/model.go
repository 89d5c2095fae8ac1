// Package model holds the core domain types for season data.
package model

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// SessionKind partitions sessions into the groups the aggregator cares about.
type SessionKind int

const (
	KindRace SessionKind = iota
	KindSprint
	KindQualifying
	KindOther
)

func (k SessionKind) String() string {
	switch k {
	case KindRace:
		return "race"
	case KindSprint:
		return "sprint"
	case KindQualifying:
		return "qualifying"
	default:
		return "other"
	}
}

// Session is one discrete on-track event within a season. Immutable once fetched.
type Session struct {
	Key      int         `json:"session_key"`
	Name     string      `json:"session_name"`
	Kind     SessionKind `json:"-"`
	Start    time.Time   `json:"date_start"`
	Circuit  string      `json:"circuit"`
	Location string      `json:"location"`
	Country  string      `json:"country"`
	Year     int         `json:"year"`
}

// Track returns the label used for display, preferring the short circuit name.
func (s Session) Track() string {
	if s.Circuit != "" {
		return s.Circuit
	}
	return s.Location
}

// Competitor identifies a driver by the car number, stable across a season.
type Competitor struct {
	Number  int    `json:"driver_number"`
	Name    string `json:"full_name"`
	Acronym string `json:"name_acronym"`
	Team    string `json:"team_name"`
	Country string `json:"country_code"`
}

// Status is the resolved classification outcome of a competitor in a session.
type Status int

const (
	// StatusFinished means the competitor is classified with a positive position.
	StatusFinished Status = iota
	StatusDNF
	StatusDNS
	StatusDSQ
	// StatusNotClassified covers rows with no position and no flag set.
	StatusNotClassified
)

func (s Status) String() string {
	switch s {
	case StatusFinished:
		return "finished"
	case StatusDNF:
		return "DNF"
	case StatusDNS:
		return "DNS"
	case StatusDSQ:
		return "DSQ"
	default:
		return "NC"
	}
}

// Classified reports whether the outcome carries a countable finishing position.
func (s Status) Classified() bool { return s == StatusFinished }

// MarshalJSON renders the status as its display label.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses a display label back into a Status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "finished":
		*s = StatusFinished
	case "DNF":
		*s = StatusDNF
	case "DNS":
		*s = StatusDNS
	case "DSQ":
		*s = StatusDSQ
	default:
		*s = StatusNotClassified
	}
	return nil
}

// SessionResult is one competitor's outcome in one race or sprint session.
// Team is the affiliation recorded for that session, not the driver's
// current team; this is what keeps team standings correct across transfers.
type SessionResult struct {
	Track       string    `json:"track"`
	Position    int       `json:"position,omitempty"`
	Status      Status    `json:"status"`
	Number      int       `json:"driver_number"`
	Driver      string    `json:"driver"`
	Team        string    `json:"team"`
	Grid        int       `json:"starting_grid"`
	Laps        int       `json:"laps"`
	Points      float64   `json:"points"`
	Sprint      bool      `json:"sprint"`
	Gap         string    `json:"gap,omitempty"`
	Preliminary bool      `json:"preliminary"`
	Start       time.Time `json:"date_start"`
}

// QualifyingResult is one competitor's outcome in a qualifying session.
// Qualifying feeds pole-position counts only and never scores points.
type QualifyingResult struct {
	Track    string    `json:"track"`
	Position int       `json:"position"`
	Number   int       `json:"driver_number"`
	Driver   string    `json:"driver"`
	Team     string    `json:"team"`
	Laps     int       `json:"laps"`
	Start    time.Time `json:"date_start"`
}

// Snapshot is the complete, immutable result set produced by one aggregation
// pass. Results are ordered by session start time; ties keep discovery order.
type Snapshot struct {
	Results      []SessionResult
	Qualifying   []QualifyingResult
	Drivers      []Competitor
	CurrentTeams map[int]string
	Preliminary  bool
	BuiltAt      time.Time
}

// DriverResults returns results whose driver name contains the query,
// case-insensitively.
func (s *Snapshot) DriverResults(name string) []SessionResult {
	q := strings.ToLower(name)
	var out []SessionResult
	for _, r := range s.Results {
		if strings.Contains(strings.ToLower(r.Driver), q) {
			out = append(out, r)
		}
	}
	return out
}

// Tracks returns the distinct track labels in result order.
func (s *Snapshot) Tracks() []string {
	seen := make(map[string]bool, len(s.Results))
	var out []string
	for _, r := range s.Results {
		if !seen[r.Track] {
			seen[r.Track] = true
			out = append(out, r.Track)
		}
	}
	return out
}

// DriverNames returns the observed driver names, sorted.
func (s *Snapshot) DriverNames() []string {
	out := make([]string, len(s.Drivers))
	for i, d := range s.Drivers {
		out[i] = d.Name
	}
	sort.Strings(out)
	return out
}

// CurrentTeam returns the most recently observed team for a car number.
func (s *Snapshot) CurrentTeam(number int) (string, bool) {
	team, ok := s.CurrentTeams[number]
	return team, ok
}
