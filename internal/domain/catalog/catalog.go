// Package catalog enumerates a season's sessions and slices them into the
// groups the aggregator works with.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/avolkov/paddock/internal/adapters/openf1"
	"github.com/avolkov/paddock/internal/domain/model"
)

// Fetcher is the slice of the upstream client the catalog needs.
type Fetcher interface {
	Sessions(ctx context.Context, year int) ([]openf1.Session, error)
}

// Catalog lists and partitions a season's sessions.
type Catalog struct {
	fetcher Fetcher
}

// New creates a Catalog over the given fetcher.
func New(fetcher Fetcher) *Catalog {
	return &Catalog{fetcher: fetcher}
}

// Sessions returns all sessions of a season as domain values.
func (c *Catalog) Sessions(ctx context.Context, year int) ([]model.Session, error) {
	rows, err := c.fetcher.Sessions(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list sessions for %d: %w", year, err)
	}
	out := make([]model.Session, len(rows))
	for i, row := range rows {
		out[i] = model.Session{
			Key:      row.SessionKey,
			Name:     row.SessionName,
			Kind:     kindOf(row.SessionName),
			Start:    row.DateStart,
			Circuit:  row.Circuit,
			Location: row.Location,
			Country:  row.CountryName,
			Year:     row.Year,
		}
	}
	return out, nil
}

// Completed filters to sessions whose start time has passed.
func Completed(sessions []model.Session, now time.Time) []model.Session {
	var out []model.Session
	for _, s := range sessions {
		if s.Start.Before(now) {
			out = append(out, s)
		}
	}
	return out
}

// Partition splits sessions into races, sprints and qualifying sessions,
// preserving input order. Practice and other kinds are dropped.
func Partition(sessions []model.Session) (races, sprints, qualifying []model.Session) {
	for _, s := range sessions {
		switch s.Kind {
		case model.KindRace:
			races = append(races, s)
		case model.KindSprint:
			sprints = append(sprints, s)
		case model.KindQualifying:
			qualifying = append(qualifying, s)
		}
	}
	return races, sprints, qualifying
}

// kindOf maps the upstream session name to a kind. The upstream has used
// both "Sprint" and "Sprint Race" for sprint sessions.
func kindOf(name string) model.SessionKind {
	switch name {
	case "Race":
		return model.KindRace
	case "Sprint", "Sprint Race":
		return model.KindSprint
	case "Qualifying":
		return model.KindQualifying
	default:
		return model.KindOther
	}
}
