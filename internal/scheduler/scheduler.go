// Package scheduler drives the two periodic triggers: the short-interval
// poll and the once-daily digest.
package scheduler

import (
	"context"
	"log"
	"time"
)

// Task is one unit of scheduled work. Errors are logged, never fatal: a
// failed tick does not stop the schedule.
type Task func(ctx context.Context) error

// Every runs task immediately, then on every interval tick, until ctx is
// canceled. Tasks run synchronously on this goroutine, so a slow run delays
// the next tick rather than overlapping it.
func Every(ctx context.Context, interval time.Duration, name string, task Task) error {
	run := func() {
		if err := task(ctx); err != nil {
			log.Printf("[%s] error: %v", name, err)
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	run()

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			run()
		}
	}
}

// DailyAt runs task at the given wall-clock hour in loc, once per day, until
// ctx is canceled. Each firing re-arms a fresh one-shot timer for the next
// occurrence rather than ticking on a fixed period, so clock and DST shifts
// cannot drift the schedule.
func DailyAt(ctx context.Context, hour int, loc *time.Location, name string, task Task) error {
	for {
		now := time.Now().In(loc)
		next := NextDaily(now, hour)
		log.Printf("[%s] next run scheduled for %s", name, next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			if err := task(ctx); err != nil {
				log.Printf("[%s] error: %v", name, err)
			}
		}
	}
}

// NextDaily computes the next occurrence of hour o'clock in now's location.
// If the target time has already passed today, the result is tomorrow.
// Using time.Date for the day arithmetic keeps the wall-clock hour stable
// across DST transitions.
func NextDaily(now time.Time, hour int) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !target.After(now) {
		target = time.Date(now.Year(), now.Month(), now.Day()+1, hour, 0, 0, 0, now.Location())
	}
	return target
}
