// Package retry re-runs file copies that failed for a transient reason,
// waiting with exponential backoff between attempts.
//
// # Example Usage
//
//	classifier := retry.NewCopyErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return engine.Copy(ctx, src, dst, nil)
//	})
//
// # Error Classification
//
// An imdix.ErrorClassifier separates transient failures from fatal ones.
// CopyErrorClassifier knows the rsync exit codes that signal interrupted I/O
// or a partial transfer, plus the errno values a busy or flaky volume reports.
// A missing source or a permission error is never retried.
//
// # Backoff Strategies
//
// ExponentialBackoff grows the delay by a multiplier per attempt, caps it and
// adds jitter.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. WithOnRetry returns a copy,
// so callers can attach per-file callbacks without sharing state.
package retry
