// Package roster resolves, per session, the competitors and their team
// affiliation as of that session, and tracks each driver's most recently
// observed team.
package roster

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/avolkov/paddock/internal/adapters/openf1"
	"github.com/avolkov/paddock/internal/domain/model"
)

// Fetcher is the slice of the upstream client the registry needs.
type Fetcher interface {
	SessionDrivers(ctx context.Context, sessionKey int) ([]openf1.Driver, error)
}

// nameOverrides corrects known upstream data-quality issues, keyed by car
// number.
var nameOverrides = map[int]string{
	12: "Andrea Kimi ANTONELLI",
}

// Registry resolves per-session rosters and keeps the last-seen team per
// car number. Sessions must be resolved in chronological order for
// CurrentTeam to reflect the truly latest affiliation; the aggregator
// guarantees that ordering.
type Registry struct {
	fetcher Fetcher

	mu       sync.RWMutex
	current  map[int]string
	observed map[int]model.Competitor
}

// New creates a Registry over the given fetcher.
func New(fetcher Fetcher) *Registry {
	return &Registry{
		fetcher:  fetcher,
		current:  make(map[int]string),
		observed: make(map[int]model.Competitor),
	}
}

// Reset clears the accumulated state at the start of an aggregation pass.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = make(map[int]string)
	r.observed = make(map[int]model.Competitor)
}

// ResolveForSession fetches the roster of one session. The returned map is
// scoped to that session: the same driver may carry a different team in a
// later session.
func (r *Registry) ResolveForSession(ctx context.Context, session model.Session) (map[int]model.Competitor, error) {
	rows, err := r.fetcher.SessionDrivers(ctx, session.Key)
	if err != nil {
		return nil, fmt.Errorf("resolve roster for session %d: %w", session.Key, err)
	}

	out := make(map[int]model.Competitor, len(rows))
	r.mu.Lock()
	for _, row := range rows {
		comp := model.Competitor{
			Number:  row.DriverNumber,
			Name:    NormalizeName(row.DriverNumber, row.FullName),
			Acronym: row.Acronym,
			Team:    row.TeamName,
			Country: row.CountryCode,
		}
		out[comp.Number] = comp
		// Last write wins; sessions arrive in chronological order.
		r.current[comp.Number] = comp.Team
		r.observed[comp.Number] = comp
	}
	r.mu.Unlock()
	return out, nil
}

// CurrentTeam returns the latest-known team for a car number.
func (r *Registry) CurrentTeam(number int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	team, ok := r.current[number]
	return team, ok
}

// CurrentTeams returns a copy of the full last-seen team map.
func (r *Registry) CurrentTeams() map[int]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int]string, len(r.current))
	for k, v := range r.current {
		out[k] = v
	}
	return out
}

// Drivers returns all observed competitors, sorted by name.
func (r *Registry) Drivers() []model.Competitor {
	r.mu.RLock()
	out := make([]model.Competitor, 0, len(r.observed))
	for _, c := range r.observed {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NormalizeName applies the fixed display-name override table.
func NormalizeName(number int, name string) string {
	if override, ok := nameOverrides[number]; ok {
		return override
	}
	return name
}
