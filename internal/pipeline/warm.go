package pipeline

import (
	"context"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
)

const (
	warmInitialBackoff = 200 * time.Millisecond
	warmMaxBackoff     = 5 * time.Second
)

// Warm polls the calendar until the first successful fetch marks the
// dashboard ready, backing off exponentially between failures. It returns
// ctx.Err() if the context ends first.
func (d *Dashboard) Warm(ctx context.Context) error {
	backoff := warmInitialBackoff
	for {
		if d.ready.Load() {
			return nil
		}
		_, err := d.calendar.ListUpcomingEvents(ctx, 1)
		if err == nil {
			d.ready.Store(true)
			d.logger.Info("calendar reachable, dashboard ready")
			return nil
		}

		d.metrics.CalendarFetchError.Inc()
		d.logger.Warn("calendar warm-up failed", "error", err, "retry_in", backoff)
		if !sharedretry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = sharedretry.NextBackoff(backoff, warmMaxBackoff)
	}
}
