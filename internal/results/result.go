package results

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Result is the uniform envelope returned by every service operation.
// Success is true iff Error is nil; Data is only meaningful on success.
// Warning carries a secondary failure that did not undo the primary
// mutation, such as an event append failing after the book row was saved.
type Result[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *StandardError `json:"error,omitempty"`
	Warning *StandardError `json:"warning,omitempty"`
}

// WithWarning attaches a secondary error without changing the outcome.
func (r Result[T]) WithWarning(w *StandardError) Result[T] {
	r.Warning = w
	return r
}

// Ok wraps a successful value.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps a classified error.
func Fail[T any](err *StandardError) Result[T] {
	return Result[T]{Success: false, Error: err}
}

// Run executes fn and converts any failure, including a panic, into a
// classified error of the given category (UNKNOWN when empty). Failures are
// logged through the injected logger; a nil logger disables logging.
func Run[T any](logger *zap.Logger, category Category, fn func() (T, error)) (result Result[T]) {
	if logger == nil {
		logger = zap.NewNop()
	}

	defer func() {
		if r := recover(); r != nil {
			se := Classify(fmt.Errorf("panic: %v", r), CategorySystem)
			logger.Error("operation panicked",
				zap.String("error_id", se.ID),
				zap.Any("panic", r),
			)
			result = Fail[T](se)
		}
	}()

	data, err := fn()
	if err != nil {
		se := Classify(err, category)
		logger.Warn("operation failed",
			zap.String("error_id", se.ID),
			zap.String("category", string(se.Category)),
			zap.String("severity", string(se.Severity)),
			zap.Error(err),
		)
		return Fail[T](se)
	}
	return Ok(data)
}

// RunCtx is Run for context-aware operations. A context already cancelled
// before fn runs is reported as a NETWORK-classified failure.
func RunCtx[T any](ctx context.Context, logger *zap.Logger, category Category, fn func(context.Context) (T, error)) Result[T] {
	if err := ctx.Err(); err != nil {
		return Fail[T](Classify(err, CategoryNetwork))
	}
	return Run(logger, category, func() (T, error) {
		return fn(ctx)
	})
}
