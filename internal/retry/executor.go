package retry

import (
	"context"
	"time"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// Executor runs an operation, retrying transient failures after a backoff.
// Execute is safe for concurrent use; WithOnRetry returns a copy.
type Executor struct {
	classifier imdix.ErrorClassifier
	strategy   imdix.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a retry executor. Panics if classifier or strategy is nil.
func NewExecutor(classifier imdix.ErrorClassifier, strategy imdix.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("retry.NewExecutor: classifier cannot be nil")
	}
	if strategy == nil {
		panic("retry.NewExecutor: strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of the executor that calls callback before each
// retry. The receiver is not modified.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation until it succeeds, fails fatally, the attempts run
// out or ctx is done. It returns the last error.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)
	limit := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && (limit < 0 || attempt < limit); attempt++ {
		if !e.classifier.IsTransient(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}
	return err
}
