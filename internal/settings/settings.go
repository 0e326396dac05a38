// Package settings holds the mutable runtime toggles. Consistency is
// advisory: a job reads one snapshot when it starts and never re-reads, so a
// toggle flipped mid-run of another job only affects jobs picked up afterward.
package settings

import "sync"

// Snapshot is the immutable view a single job runs against.
type Snapshot struct {
	// ConnectPairs draws connecting lines between consecutive scene pairs on
	// the scatter plot.
	ConnectPairs bool
	// FixedMax is the process-wide normalization maximum, set once at startup.
	FixedMax float64
	// PlotKinds lists the artifact renderers to run, in order.
	PlotKinds []string
}

// Store serializes toggle mutations and hands out snapshots.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewStore(fixedMax float64, plotKinds []string) *Store {
	return &Store{snap: Snapshot{FixedMax: fixedMax, PlotKinds: plotKinds}}
}

// Snapshot returns the current settings by value.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	snap.PlotKinds = append([]string(nil), s.snap.PlotKinds...)
	return snap
}

// SetConnectPairs flips the pair-lines toggle for jobs snapshotted afterward.
func (s *Store) SetConnectPairs(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ConnectPairs = on
}

// ConnectPairs reads the toggle without taking a full snapshot.
func (s *Store) ConnectPairs() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.ConnectPairs
}
