// Package app wires the season aggregation pipeline: catalog, roster,
// reconciler and the committed snapshot store, plus the refresh lifecycle.
package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avolkov/paddock/internal/adapters/openf1"
	"github.com/avolkov/paddock/internal/adapters/repository"
	"github.com/avolkov/paddock/internal/domain/catalog"
	"github.com/avolkov/paddock/internal/domain/model"
	"github.com/avolkov/paddock/internal/domain/reconcile"
	"github.com/avolkov/paddock/internal/domain/roster"
	"github.com/avolkov/paddock/internal/domain/standings"
	"github.com/avolkov/paddock/pkg/logger"
	"github.com/avolkov/paddock/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultSeasonYear      = 2025
	defaultRefreshInterval = 30 * time.Minute
)

// Upstream bundles the client operations the pipeline consumes.
type Upstream interface {
	Sessions(ctx context.Context, year int) ([]openf1.Session, error)
	SessionDrivers(ctx context.Context, sessionKey int) ([]openf1.Driver, error)
	SessionResults(ctx context.Context, sessionKey int) ([]openf1.SessionResult, error)
	Positions(ctx context.Context, sessionKey int) ([]openf1.Position, error)
}

// Service owns the aggregation lifecycle and exposes the read API over the
// committed snapshot. Readers never block; all mutation happens inside an
// aggregation pass and becomes visible with one atomic snapshot commit.
type Service struct {
	year         int
	refreshEvery time.Duration
	log          logger.Logger

	catalog    *catalog.Catalog
	registry   *roster.Registry
	reconciler *reconcile.Reconciler
	store      *repository.Store

	mu          sync.Mutex
	inflight    chan struct{}
	initialized bool
	started     bool

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// New creates a Service over the given upstream.
func New(upstream Upstream, opts ...Option) *Service {
	s := &Service{
		year:         defaultSeasonYear,
		refreshEvery: defaultRefreshInterval,
		catalog:      catalog.New(upstream),
		registry:     roster.New(upstream),
		reconciler:   reconcile.New(upstream),
		store:        repository.NewStore(),
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("aggregator")
	}
	return s
}

// Start runs the initial load and launches the periodic refresh loop.
func (s *Service) Start(ctx context.Context) {
	s.Initialize(ctx)
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()
	go s.refreshLoop(ctx)
}

// Stop cancels the refresh loop. A pass already in flight runs to
// completion; there is no pass-level cancellation beyond the context.
func (s *Service) Stop() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	s.stopOnce.Do(func() { close(s.stopCh) })
	if started {
		<-s.done
	}
}

// Initialize loads the season once. It is idempotent and safe under
// concurrent callers: a load already in progress is awaited, not repeated.
// It never returns an error; failures are logged and the previously
// committed snapshot, possibly empty, stays in place.
func (s *Service) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	if ch := s.inflight; ch != nil {
		s.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
		}
		return
	}
	ch := make(chan struct{})
	s.inflight = ch
	s.mu.Unlock()

	s.runPass(ctx)

	s.mu.Lock()
	s.inflight = nil
	s.initialized = true
	s.mu.Unlock()
	close(ch)
}

// Refresh runs one aggregation pass unless one is already in progress, in
// which case it reports false and does nothing.
func (s *Service) Refresh(ctx context.Context) bool {
	s.mu.Lock()
	if s.inflight != nil {
		s.mu.Unlock()
		return false
	}
	ch := make(chan struct{})
	s.inflight = ch
	s.mu.Unlock()

	s.runPass(ctx)

	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()
	close(ch)
	return true
}

func (s *Service) refreshLoop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if !s.Refresh(ctx) {
				// A pass is still running; this tick is dropped, not queued.
				metrics.RecordRefreshPass("skipped_tick")
				s.log.Debug(ctx, "refresh tick skipped, pass in progress")
			}
		}
	}
}

// runPass executes one full aggregation pass and commits the result. A
// catalog failure aborts the pass; per-session failures skip that session.
func (s *Service) runPass(ctx context.Context) {
	start := time.Now()
	s.log.Info(ctx, "aggregation pass started", logger.Int("year", s.year))

	sessions, err := s.catalog.Sessions(ctx, s.year)
	if err != nil {
		metrics.RecordRefreshPass("failed")
		s.log.Error(ctx, "season session list unavailable, pass aborted", logger.Error(err))
		return
	}

	completed := catalog.Completed(sessions, time.Now())
	races, sprints, qualifying := catalog.Partition(completed)
	s.log.Info(ctx, "sessions to process",
		logger.Int("races", len(races)),
		logger.Int("sprints", len(sprints)),
		logger.Int("qualifying", len(qualifying)),
	)

	qualyResults := s.loadQualifying(ctx, qualifying)

	// The current-team map is rebuilt from race and sprint sessions only,
	// in chronological order, so the last write is the latest affiliation.
	s.registry.Reset()
	worklist := append(append([]model.Session{}, races...), sprints...)
	sort.SliceStable(worklist, func(i, j int) bool { return worklist[i].Start.Before(worklist[j].Start) })

	var results []model.SessionResult
	preliminary := false
	for _, session := range worklist {
		rows, err := s.loadSession(ctx, session)
		if err != nil {
			metrics.RecordSessionSkipped()
			s.log.Error(ctx, "session skipped",
				logger.Int("session", session.Key),
				logger.String("track", session.Track()),
				logger.Error(err),
			)
			continue
		}
		metrics.RecordSessionProcessed()
		for _, row := range rows {
			if row.Preliminary {
				preliminary = true
			}
		}
		results = append(results, rows...)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Start.Before(results[j].Start) })

	snap := &model.Snapshot{
		Results:      results,
		Qualifying:   qualyResults,
		Drivers:      s.registry.Drivers(),
		CurrentTeams: s.registry.CurrentTeams(),
		Preliminary:  preliminary,
		BuiltAt:      time.Now(),
	}
	s.store.Commit(snap)

	elapsed := time.Since(start)
	metrics.RecordRefreshPass("ok")
	metrics.RecordRefreshDuration(elapsed.Seconds())
	s.log.Info(ctx, "aggregation pass committed",
		logger.Int("results", len(results)),
		logger.Int("qualifying_results", len(qualyResults)),
		logger.Int("drivers", len(snap.Drivers)),
		logger.Bool("preliminary", preliminary),
		logger.Duration("elapsed", elapsed),
	)
	if preliminary {
		s.log.Warn(ctx, "snapshot contains preliminary results")
	}
}

func (s *Service) loadSession(ctx context.Context, session model.Session) ([]model.SessionResult, error) {
	competitors, err := s.registry.ResolveForSession(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.reconciler.Reconcile(ctx, session, competitors)
}

// loadQualifying processes qualifying sessions independently; they feed
// pole-position data only and a failed session is skipped like any other.
func (s *Service) loadQualifying(ctx context.Context, sessions []model.Session) []model.QualifyingResult {
	var out []model.QualifyingResult
	for _, session := range sessions {
		competitors, err := s.registry.ResolveForSession(ctx, session)
		if err == nil {
			var rows []model.QualifyingResult
			rows, err = s.reconciler.ReconcileQualifying(ctx, session, competitors)
			if err == nil {
				out = append(out, rows...)
				continue
			}
		}
		metrics.RecordSessionSkipped()
		s.log.Error(ctx, "qualifying session skipped",
			logger.Int("session", session.Key),
			logger.String("track", session.Track()),
			logger.Error(err),
		)
	}
	return out
}

// Read API. Every accessor reads one committed snapshot; none blocks.

// Ready reports whether a pass has committed a non-empty snapshot.
func (s *Service) Ready() bool { return s.store.Ready() }

// RaceResults returns all race and sprint results in session order.
func (s *Service) RaceResults() []model.SessionResult {
	return s.store.Current().Results
}

// DriverResults returns results matching a case-insensitive substring of
// the driver name.
func (s *Service) DriverResults(name string) []model.SessionResult {
	return s.store.Current().DriverResults(name)
}

// QualifyingResults returns all qualifying results.
func (s *Service) QualifyingResults() []model.QualifyingResult {
	return s.store.Current().Qualifying
}

// Drivers returns the observed driver names, sorted.
func (s *Service) Drivers() []string {
	return s.store.Current().DriverNames()
}

// Tracks returns the distinct track labels in season order.
func (s *Service) Tracks() []string {
	return s.store.Current().Tracks()
}

// CurrentTeam returns the latest-known team for a car number.
func (s *Service) CurrentTeam(number int) (string, bool) {
	return s.store.Current().CurrentTeam(number)
}

// DriverStandings computes the drivers' championship over the snapshot.
func (s *Service) DriverStandings() []standings.DriverStanding {
	return standings.Drivers(s.store.Current())
}

// TeamStandings computes the constructors' championship over the snapshot.
func (s *Service) TeamStandings() []standings.TeamStanding {
	return standings.Teams(s.store.Current())
}

// DriverProfile summarizes one driver's season.
func (s *Service) DriverProfile(name string) (standings.DriverProfile, bool) {
	return standings.Profile(s.store.Current(), name)
}

// Status describes the committed snapshot for the status endpoint.
type Status struct {
	Ready             bool      `json:"ready"`
	Year              int       `json:"year"`
	Results           int       `json:"results"`
	QualifyingResults int       `json:"qualifying_results"`
	Drivers           int       `json:"drivers"`
	Preliminary       bool      `json:"preliminary"`
	LastUpdate        time.Time `json:"last_update"`
}

// CurrentStatus reports the state of the committed snapshot.
func (s *Service) CurrentStatus() Status {
	snap := s.store.Current()
	return Status{
		Ready:             s.Ready(),
		Year:              s.year,
		Results:           len(snap.Results),
		QualifyingResults: len(snap.Qualifying),
		Drivers:           len(snap.Drivers),
		Preliminary:       snap.Preliminary,
		LastUpdate:        snap.BuiltAt,
	}
}
