package scheduler

import (
	"context"
	"log/slog"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on every tick until ctx is done.
// A non-positive interval disables the schedule.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	if interval <= 0 {
		slog.Info("scheduler: disabled", "task", name)
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	run := func() {
		if err := task(ctx); err != nil {
			slog.Warn("scheduler: task failed", "task", name, "err", err)
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
