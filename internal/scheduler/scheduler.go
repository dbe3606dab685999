// Package scheduler runs the periodic job that keeps tomorrow's show
// schedule populated. It replaces designs that piggybacked this work on
// request handling, where schedule creation depended on site traffic.
package scheduler

import (
    "context"
    "log"
    "time"
)

// ShowScheduler is the slice of the provisioning service the job needs.
type ShowScheduler interface {
    EnsureTomorrowShows(ctx context.Context) (int, error)
}

// Run executes the schedule job immediately and then on every tick of
// the given interval until ctx is cancelled. Errors are logged and the
// loop continues; a failed run is retried on the next tick.
func Run(ctx context.Context, svc ShowScheduler, interval time.Duration) {
    if interval <= 0 {
        interval = time.Hour
    }
    runOnce(ctx, svc)
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            log.Printf("scheduler: stopped: %v", ctx.Err())
            return
        case <-ticker.C:
            runOnce(ctx, svc)
        }
    }
}

func runOnce(ctx context.Context, svc ShowScheduler) {
    start := time.Now()
    created, err := svc.EnsureTomorrowShows(ctx)
    if err != nil {
        log.Printf("scheduler: ensure tomorrow shows failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
        return
    }
    log.Printf("scheduler: ensured tomorrow's shows in %s, %d created", time.Since(start).Round(time.Millisecond), created)
}
