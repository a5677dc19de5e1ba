package fetch

import (
	"context"
	"log/slog"
	"time"
)

// StartScheduler polls the schedule page for tomorrow's document every
// interval until ctx is cancelled. A failed poll is logged and retried on
// the next tick; the schedule is usually published some time during the
// evening, so early polls routinely find no link.
func (c *Client) StartScheduler(ctx context.Context, interval time.Duration) {
	slog.Info("fetch scheduler started", "page", c.pageURL, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("fetch scheduler stopped")
			return
		case <-ticker.C:
			report, err := c.FetchTomorrow(ctx)
			if err != nil {
				slog.Warn("scheduled fetch failed", "error", err)
				continue
			}
			slog.Info("scheduled fetch completed",
				"run_id", report.RunID,
				"committed", report.Committed,
				"rejected", report.Rejected,
				"failed", report.Failed,
			)
		}
	}
}
