package recurrence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// passTimeout bounds a single reconciliation pass so a wedged store call
// cannot hold the job slot forever.
const passTimeout = 5 * time.Minute

// Scheduler triggers the engine once per day at a fixed wall-clock time.
//
// It is created once at process start and stopped during graceful
// shutdown — no ambient global timer state.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler registers a daily reconciliation job for the given cron
// spec (standard 5-field format, e.g. "59 18 * * *").
func NewScheduler(engine *Engine, spec string, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), passTimeout)
		defer cancel()
		engine.Reconcile(ctx, time.Now())
	})
	if err != nil {
		return nil, fmt.Errorf("recurrence: invalid schedule %q: %w", spec, err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins triggering in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("recurrence scheduler started")
}

// Stop halts the trigger and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("recurrence scheduler stopped")
}
