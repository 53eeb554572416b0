package domain

import (
	"context"
	"time"
)

// ExecutableTask is one unit of work ParallelExecutorImpl can run concurrently
// alongside others, returning an arbitrary result plus any error; IsEnabled
// lets a caller skip a task without removing it from the batch (e.g. a
// config flag toggling one analysis off).
type ExecutableTask interface {
	Name() string
	IsEnabled() bool
	Execute(ctx context.Context) (any, error)
}

// ParallelExecutor runs a batch of ExecutableTasks under a bounded-concurrency
// errgroup, aggregating every failure instead of stopping at the first.
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
	SetMaxConcurrency(max int)
	SetTimeout(timeout time.Duration)
}
