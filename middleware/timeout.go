package middleware

import (
	"context"
	"errors"
	"time"
)

// Timeout attaches a deadline to the context handed to the command method.
// Methods observe it through their context.Context parameter; when the
// deadline has passed and the method returns an error, the error becomes a
// *TimeoutError. Commands run synchronously, so a method that ignores its
// context is not interrupted.
func Timeout(duration time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			parent := ctx.Context()
			timeoutCtx, cancel := context.WithTimeout(parent, duration)
			defer cancel()

			ctx.SetContext(timeoutCtx)
			defer ctx.SetContext(parent)

			err := next(ctx)
			if err != nil && errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) &&
				parent.Err() == nil {
				return &TimeoutError{Duration: duration, Command: getCommandName(ctx)}
			}
			return err
		}
	}
}

// TimeoutWithDefault is Timeout using the configured default duration.
func TimeoutWithDefault(options ...MiddlewareOption) Middleware {
	return Timeout(newConfig(options).DefaultTimeout)
}
