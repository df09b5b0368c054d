package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTrigger submits a fixed set of jobs once at start and then on every tick
type IntervalTrigger struct {
	scheduler *Scheduler
	interval  time.Duration
	jobNames  []string
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a trigger for the named jobs
func NewIntervalTrigger(scheduler *Scheduler, interval time.Duration, logger *zap.Logger, jobNames ...string) *IntervalTrigger {
	if interval <= 0 {
		interval = time.Hour
	}
	return &IntervalTrigger{
		scheduler: scheduler,
		interval:  interval,
		jobNames:  jobNames,
		logger:    logger,
	}
}

// Start begins ticking
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Interval trigger started",
		zap.Duration("interval", t.interval),
		zap.Strings("jobs", t.jobNames),
	)
	return nil
}

// Stop ends the loop and waits for it
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.cancel()
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) loop(ctx context.Context) {
	defer t.wg.Done()
	t.fire()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire()
		}
	}
}

func (t *IntervalTrigger) fire() {
	for _, name := range t.jobNames {
		if _, err := t.scheduler.Submit(name); err != nil {
			level := t.logger.Error
			if errors.Is(err, ErrJobQueueFull) {
				level = t.logger.Warn
			}
			level("Failed to submit scheduled job", zap.String("job", name), zap.Error(err))
		}
	}
}
