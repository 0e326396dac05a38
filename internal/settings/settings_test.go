package settings

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotIsDetached(t *testing.T) {
	s := NewStore(7.0, []string{"scatter", "profile"})

	snap := s.Snapshot()
	assert.Equal(t, 7.0, snap.FixedMax)
	assert.False(t, snap.ConnectPairs)

	// Mutating a snapshot must not leak back into the store.
	snap.PlotKinds[0] = "mutated"
	snap.ConnectPairs = true
	assert.Equal(t, []string{"scatter", "profile"}, s.Snapshot().PlotKinds)
	assert.False(t, s.ConnectPairs())
}

func TestToggleAffectsLaterSnapshotsOnly(t *testing.T) {
	s := NewStore(7.0, nil)

	before := s.Snapshot()
	s.SetConnectPairs(true)
	after := s.Snapshot()

	assert.False(t, before.ConnectPairs)
	assert.True(t, after.ConnectPairs)
}

func TestConcurrentToggle(t *testing.T) {
	s := NewStore(7.0, []string{"scatter"})

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(on bool) {
			defer wg.Done()
			s.SetConnectPairs(on)
			_ = s.Snapshot()
		}(i%2 == 0)
	}
	wg.Wait()
}
