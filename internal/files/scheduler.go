package files

// scheduler.go runs periodic retention cleanup in the background. Cleanup
// failures are logged but never fail the application; the next tick simply
// tries again.

import (
	"context"
	"log/slog"
	"time"
)

// StartCleanupScheduler deletes stale schedule files immediately and then
// every interval, until ctx is cancelled.
func (m *Manager) StartCleanupScheduler(ctx context.Context, interval time.Duration) {
	slog.Info("retention scheduler started", "dir", m.dir, "interval", interval)

	m.runCleanup()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			m.runCleanup()
		}
	}
}

func (m *Manager) runCleanup() {
	start := time.Now()
	deleted, err := m.Cleanup(time.Now())
	if err != nil {
		slog.Error("retention cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("retention cleanup completed",
			"files_deleted", deleted,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	} else {
		slog.Debug("retention cleanup completed, nothing to delete")
	}
}
