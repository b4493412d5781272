package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"internscout/internal/logger"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on each tick until ctx ends. Runs
// never overlap; a tick that fires during a run is dropped.
func Every(ctx context.Context, interval time.Duration, name string, log *zap.Logger, task Task) {
	log = logger.OrNop(log)
	t := time.NewTicker(interval)
	defer t.Stop()

	run := func() {
		if err := task(ctx); err != nil {
			log.Error("scheduled task failed", zap.String("task", name), zap.Error(err))
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
