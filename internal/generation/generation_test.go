package generation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
)

func TestAdvanceInvalidatesOlderGenerations(t *testing.T) {
	tr := NewTracker(time.Minute, nil)

	first := tr.Advance("s1")
	second := tr.Advance("s1")
	require.Greater(t, second, first)

	assert.False(t, tr.IsCurrent("s1", first), "stale completion must be discarded")
	assert.True(t, tr.IsCurrent("s1", second))
	assert.Equal(t, uint64(1), tr.Advance("s2"), "sessions are independent")
}

func TestUnknownSessionIsCurrent(t *testing.T) {
	tr := NewTracker(time.Minute, nil)
	assert.True(t, tr.IsCurrent("ghost", 7))
	assert.Equal(t, uint64(0), tr.Current("ghost"))
}

func TestPruneRemovesIdleSessions(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(10*time.Minute, func() time.Time { return now })
	tr.Advance("old")
	now = now.Add(8 * time.Minute)
	tr.Advance("fresh")
	now = now.Add(5 * time.Minute)

	assert.Equal(t, 1, tr.Prune())
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, uint64(1), tr.Current("fresh"))
}

func TestAdvanceIsMonotonicUnderConcurrency(t *testing.T) {
	tr := NewTracker(0, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Advance("s")
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(50), tr.Current("s"))
}

func TestRunPrunesAndLogsTrackedSessions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := NewTracker(time.Nanosecond, nil)
	tr.Advance("idle")

	ctx, cancel := context.WithCancel(observability.WithLogger(context.Background(), zap.New(core)))
	defer cancel()
	go tr.Run(ctx, time.Millisecond)

	require.Eventually(t, func() bool {
		return logs.FilterMessage("generation: pruned idle sessions").Len() > 0
	}, time.Second, 5*time.Millisecond)
	entry := logs.FilterMessage("generation: pruned idle sessions").All()[0]
	assert.Equal(t, int64(1), entry.ContextMap()["pruned"])
	assert.Equal(t, int64(0), entry.ContextMap()["tracked"])
	assert.Equal(t, 0, tr.Len())
}
