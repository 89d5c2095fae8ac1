// Package repository holds the committed season snapshot. Writers publish a
// fully built snapshot with one atomic swap; readers never block and never
// observe a partially built one.
package repository

import (
	"sync/atomic"
	"time"

	"github.com/avolkov/paddock/internal/domain/model"
	"github.com/avolkov/paddock/pkg/metrics"
)

// Store is the single place the committed snapshot lives.
type Store struct {
	snap atomic.Pointer[model.Snapshot]
}

// NewStore creates a store holding an empty snapshot, so readers are valid
// before the first aggregation pass commits.
func NewStore() *Store {
	s := &Store{}
	s.snap.Store(&model.Snapshot{CurrentTeams: map[int]string{}})
	return s
}

// Commit atomically publishes a new snapshot. The previous snapshot stays
// visible to readers that already hold it.
func (s *Store) Commit(snap *model.Snapshot) {
	if snap.BuiltAt.IsZero() {
		snap.BuiltAt = time.Now()
	}
	s.snap.Store(snap)
	metrics.UpdateSnapshot(len(snap.Results), len(snap.Drivers), len(snap.Qualifying), snap.BuiltAt.Unix())
}

// Current returns the committed snapshot. The caller must treat it as
// read-only.
func (s *Store) Current() *model.Snapshot {
	return s.snap.Load()
}

// Ready reports whether at least one pass has committed a non-empty snapshot.
func (s *Store) Ready() bool {
	return len(s.Current().Results) > 0
}
