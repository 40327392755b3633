// Package scheduler triggers daily catalog walks at a fixed local
// wall-clock hour.
package scheduler

import (
	"context"
	"time"

	"github.com/strummet/pricewatch/internal/obs"
	"github.com/strummet/pricewatch/internal/walker"
)

// Scheduler runs the walker once per day. The loop is strictly sequential
// (compute, sleep, run, repeat), so a walk overrunning the next trigger
// hour simply pushes that trigger back: the schedule is daily from
// completion, and no two walks can overlap.
type Scheduler struct {
	Walker *walker.Walker
	Hour   int
	Loc    *time.Location

	// Now and Wait are replaceable for tests.
	Now  func() time.Time
	Wait func(ctx context.Context, d time.Duration) error
}

// New creates a scheduler firing at hour in loc.
func New(w *walker.Walker, hour int, loc *time.Location) *Scheduler {
	return &Scheduler{Walker: w, Hour: hour, Loc: loc, Now: time.Now, Wait: wait}
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NextRun computes the next trigger at the given wall-clock hour: today if
// the hour has not passed yet, otherwise the same hour tomorrow.
func NextRun(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Run loops until the context is cancelled. Walk failures are logged and
// the loop continues; a broken retailer page today should not stop
// tomorrow's update.
func (s *Scheduler) Run(ctx context.Context) error {
	log := obs.Logger
	for {
		next := NextRun(s.Now(), s.Hour, s.Loc)
		delay := next.Sub(s.Now())
		log.Info("next price update scheduled", "at", next.Format(time.RFC3339), "in", delay.String())

		if err := s.Wait(ctx, delay); err != nil {
			return err
		}

		summary, err := s.Walker.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("scheduled walk failed", "error", err)
			continue
		}
		log.Info("scheduled walk completed",
			"run_id", summary.RunID,
			"updated", summary.Updated,
			"unchanged", summary.Unchanged,
			"failed", summary.Failed,
		)
	}
}
