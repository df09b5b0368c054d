package scheduler

import "errors"

// Submit errors. Callers decide whether to retry on the next tick.
var (
	ErrSchedulerNotRunning = errors.New("scheduler: not running")
	ErrJobQueueFull        = errors.New("scheduler: queue full")
	ErrUnknownJob          = errors.New("scheduler: no executor registered")
)
