package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jamesainslie/census/pkg/census/types"
)

func TestEmitter_FileCountTrigger(t *testing.T) {
	counters := newCounters()
	var events []types.ScanProgress
	em := &emitter{
		fn:       func(p types.ScanProgress) { events = append(events, p) },
		counters: counters,
		estimate: 1 << 40,
	}

	for range 1499 {
		counters.AddFile(1)
		em.fileSeen("/dir")
	}

	assert.Len(t, events, 2)
	assert.Equal(t, int64(500), events[0].FilesAnalyzed)
	assert.Equal(t, int64(1000), events[1].FilesAnalyzed)
	assert.Equal(t, "/dir", events[0].CurrentPath)
}

func TestEmitter_PercentTrigger(t *testing.T) {
	counters := newCounters()
	var events []types.ScanProgress
	em := &emitter{
		fn:       func(p types.ScanProgress) { events = append(events, p) },
		counters: counters,
		estimate: 1000,
	}

	counters.AddFile(5) // 0.5%
	em.fileSeen("/d")
	assert.Empty(t, events)

	counters.AddFile(6) // 1.1%
	em.fileSeen("/d")
	assert.Len(t, events, 1)
	assert.InDelta(t, 1.1, events[0].Percentage, 0.0001)

	counters.AddFile(5) // 1.6%, only 0.5 since last
	em.fileSeen("/d")
	assert.Len(t, events, 1)
}

func TestEmitter_PercentCapped(t *testing.T) {
	counters := newCounters()
	var last types.ScanProgress
	em := &emitter{
		fn:       func(p types.ScanProgress) { last = p },
		counters: counters,
		estimate: 100,
	}

	counters.AddFile(1000)
	em.fileSeen("/d")
	assert.InDelta(t, 99.9, last.Percentage, 0.0001)
	assert.False(t, last.Done)
}

func TestEmitter_NilCallback(t *testing.T) {
	em := &emitter{counters: newCounters(), estimate: 1}
	assert.NotPanics(t, func() { em.fileSeen("/d") })
}
