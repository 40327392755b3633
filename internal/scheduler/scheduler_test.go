package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strummet/pricewatch/internal/catalog"
	"github.com/strummet/pricewatch/internal/walker"
	"github.com/strummet/pricewatch/pkg/models"
)

func TestNextRunBeforeTriggerHourIsToday(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	now := time.Date(2026, 6, 1, 3, 15, 0, 0, loc)

	next := NextRun(now, 5, loc)
	assert.Equal(t, time.Date(2026, 6, 1, 5, 0, 0, 0, loc), next)
}

func TestNextRunAfterTriggerHourIsTomorrow(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, loc)

	next := NextRun(now, 5, loc)
	assert.Equal(t, time.Date(2026, 6, 2, 5, 0, 0, 0, loc), next)
}

func TestNextRunExactlyAtTriggerHourIsTomorrow(t *testing.T) {
	now := time.Date(2026, 6, 1, 5, 0, 0, 0, time.UTC)

	next := NextRun(now, 5, time.UTC)
	assert.Equal(t, time.Date(2026, 6, 2, 5, 0, 0, 0, time.UTC), next)
}

func TestNextRunCrossesMonthBoundary(t *testing.T) {
	now := time.Date(2026, 6, 30, 23, 59, 0, 0, time.UTC)

	next := NextRun(now, 5, time.UTC)
	assert.Equal(t, time.Date(2026, 7, 1, 5, 0, 0, 0, time.UTC), next)
}

func TestRunOverrunningWalkPushesNextTriggerBack(t *testing.T) {
	clock := time.Date(2026, 6, 1, 4, 0, 0, 0, time.UTC)

	w := &walker.Walker{
		Store: catalog.NewStore(filepath.Join(t.TempDir(), "catalog.json")),
		Now:   func() time.Time { return clock },
	}
	walks := 0
	w.Export = func(context.Context, []models.Product) error {
		walks++
		return nil
	}

	s := New(w, 5, time.UTC)
	s.Now = func() time.Time { return clock }

	var waits []time.Duration
	s.Wait = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		if len(waits) > 1 {
			return context.Canceled
		}
		// the 5am trigger fires, then the walk overruns until 06:30
		clock = clock.Add(d + 90*time.Minute)
		return nil
	}

	err := s.Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 1, walks, "exactly one walk per trigger")
	require.Len(t, waits, 2)
	assert.Equal(t, time.Hour, waits[0])
	// day one's trigger hour passed during the walk, so the next wait
	// targets 5am the following day instead of firing again immediately
	assert.Equal(t, 22*time.Hour+30*time.Minute, waits[1])
}

func TestNextRunConvertsToScheduleZone(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	// 04:30 UTC is 05:30 in the schedule zone, so the 5am trigger for
	// today has already passed there
	now := time.Date(2026, 6, 1, 4, 30, 0, 0, time.UTC)

	next := NextRun(now, 5, loc)
	assert.Equal(t, time.Date(2026, 6, 2, 5, 0, 0, 0, loc), next)
}
