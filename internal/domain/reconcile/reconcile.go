// Package reconcile resolves one session into an ordered, classified result
// list. The official classification is preferred; when the upstream has not
// published it yet, final positions are reconstructed from raw position
// samples and marked preliminary.
package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/avolkov/paddock/internal/adapters/openf1"
	"github.com/avolkov/paddock/internal/domain/model"
	"github.com/avolkov/paddock/pkg/logger"
	"github.com/avolkov/paddock/pkg/metrics"
)

// Fetcher is the slice of the upstream client the reconciler needs.
type Fetcher interface {
	SessionResults(ctx context.Context, sessionKey int) ([]openf1.SessionResult, error)
	Positions(ctx context.Context, sessionKey int) ([]openf1.Position, error)
}

// Reconciler turns upstream session data into domain results.
type Reconciler struct {
	fetcher Fetcher
	log     logger.Logger
}

// New creates a Reconciler over the given fetcher.
func New(fetcher Fetcher) *Reconciler {
	return &Reconciler{fetcher: fetcher, log: logger.Named("reconcile")}
}

// Reconcile resolves a race or sprint session against the given roster.
// A fetch failure propagates so the aggregator can skip the session; an
// empty official result is not an error and triggers the preliminary path.
func (r *Reconciler) Reconcile(ctx context.Context, session model.Session, competitors map[int]model.Competitor) ([]model.SessionResult, error) {
	rows, err := r.fetcher.SessionResults(ctx, session.Key)
	if err != nil {
		return nil, fmt.Errorf("official results for session %d: %w", session.Key, err)
	}
	if len(rows) > 0 {
		return r.official(ctx, session, rows, competitors), nil
	}

	samples, err := r.fetcher.Positions(ctx, session.Key)
	if err != nil {
		return nil, fmt.Errorf("position samples for session %d: %w", session.Key, err)
	}
	metrics.RecordPreliminarySession()
	return r.preliminary(ctx, session, samples, competitors), nil
}

// official maps published classification rows to results. Rows are kept when
// they carry a positive position or any of the dnf/dns/dsq flags; positioned
// rows sort first, the rest keep their upstream order.
func (r *Reconciler) official(ctx context.Context, session model.Session, rows []openf1.SessionResult, competitors map[int]model.Competitor) []model.SessionResult {
	kept := make([]openf1.SessionResult, 0, len(rows))
	for _, row := range rows {
		if row.Position > 0 || row.DNF || row.DNS || row.DSQ {
			kept = append(kept, row)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Position > 0 && b.Position > 0 {
			return a.Position < b.Position
		}
		return a.Position > 0
	})

	sprint := session.Kind == model.KindSprint
	out := make([]model.SessionResult, 0, len(kept))
	for _, row := range kept {
		comp, ok := competitors[row.DriverNumber]
		if !ok {
			r.dropUnknown(ctx, session, row.DriverNumber)
			continue
		}

		status, position := classify(row)
		team := row.TeamName
		if team == "" {
			team = comp.Team
		}

		out = append(out, model.SessionResult{
			Track:    session.Track(),
			Position: position,
			Status:   status,
			Number:   comp.Number,
			Driver:   comp.Name,
			Team:     team,
			Grid:     row.GridPosition,
			Laps:     row.Laps,
			// Points come verbatim from upstream, even for disqualified rows.
			Points:      row.Points,
			Sprint:      sprint,
			Gap:         string(row.GapToLeader),
			Preliminary: false,
			Start:       session.Start,
		})
	}
	return out
}

// preliminary approximates the final classification from raw samples: for
// each driver only the latest-timestamped sample counts.
func (r *Reconciler) preliminary(ctx context.Context, session model.Session, samples []openf1.Position, competitors map[int]model.Competitor) []model.SessionResult {
	latest := make(map[int]openf1.Position, len(samples))
	for _, s := range samples {
		if cur, ok := latest[s.DriverNumber]; !ok || s.Date.After(cur.Date) {
			latest[s.DriverNumber] = s
		}
	}

	final := make([]openf1.Position, 0, len(latest))
	for _, s := range latest {
		if s.Position > 0 {
			final = append(final, s)
		}
	}
	sort.Slice(final, func(i, j int) bool { return final[i].Position < final[j].Position })

	sprint := session.Kind == model.KindSprint
	out := make([]model.SessionResult, 0, len(final))
	for _, s := range final {
		comp, ok := competitors[s.DriverNumber]
		if !ok {
			r.dropUnknown(ctx, session, s.DriverNumber)
			continue
		}
		out = append(out, model.SessionResult{
			Track:       session.Track(),
			Position:    s.Position,
			Status:      model.StatusFinished,
			Number:      comp.Number,
			Driver:      comp.Name,
			Team:        comp.Team,
			Points:      PointsFor(s.Position, sprint),
			Sprint:      sprint,
			Preliminary: true,
			Start:       session.Start,
		})
	}
	return out
}

// ReconcileQualifying resolves a qualifying session from official results
// only; unpositioned rows are ignored. Qualifying feeds pole counts and
// never scores points.
func (r *Reconciler) ReconcileQualifying(ctx context.Context, session model.Session, competitors map[int]model.Competitor) ([]model.QualifyingResult, error) {
	rows, err := r.fetcher.SessionResults(ctx, session.Key)
	if err != nil {
		return nil, fmt.Errorf("qualifying results for session %d: %w", session.Key, err)
	}

	kept := make([]openf1.SessionResult, 0, len(rows))
	for _, row := range rows {
		if row.Position > 0 {
			kept = append(kept, row)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Position < kept[j].Position })

	out := make([]model.QualifyingResult, 0, len(kept))
	for _, row := range kept {
		comp, ok := competitors[row.DriverNumber]
		if !ok {
			r.dropUnknown(ctx, session, row.DriverNumber)
			continue
		}
		out = append(out, model.QualifyingResult{
			Track:    session.Track(),
			Position: row.Position,
			Number:   comp.Number,
			Driver:   comp.Name,
			Team:     comp.Team,
			Laps:     row.Laps,
			Start:    session.Start,
		})
	}
	return out, nil
}

func (r *Reconciler) dropUnknown(ctx context.Context, session model.Session, number int) {
	metrics.RecordResultDropped()
	r.log.Warn(ctx, "result references driver missing from session roster",
		logger.Int("session", session.Key),
		logger.Int("driver", number),
	)
}

// classify maps upstream flags to an outcome. Precedence: DSQ > DNS > DNF >
// finished-with-position > not classified. The position is kept only for
// finished rows.
func classify(row openf1.SessionResult) (model.Status, int) {
	switch {
	case row.DSQ:
		return model.StatusDSQ, 0
	case row.DNS:
		return model.StatusDNS, 0
	case row.DNF:
		return model.StatusDNF, 0
	case row.Position > 0:
		return model.StatusFinished, row.Position
	default:
		return model.StatusNotClassified, 0
	}
}
