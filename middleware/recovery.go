package middleware

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

// Recovery turns a panic inside a command method into a *RecoveryError.
// With WithStackTrace(true) the stack is captured and printed to stderr.
func Recovery(options ...MiddlewareOption) Middleware {
	return RecoveryTo(os.Stderr, options...)
}

// RecoveryTo is Recovery with an explicit destination for stack traces.
func RecoveryTo(w io.Writer, options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				var stack []byte
				if config.PrintStack {
					stack = make([]byte, config.StackSize)
					stack = stack[:runtime.Stack(stack, false)]
				}

				recovered := &RecoveryError{
					Panic:   r,
					Command: getCommandName(ctx),
					Stack:   stack,
				}
				if len(stack) > 0 {
					fmt.Fprintf(w, "PANIC in command '%s': %v\n", recovered.Command, r)
					fmt.Fprintf(w, "Stack trace:\n%s\n", stack)
				}
				err = recovered
			}()

			return next(ctx)
		}
	}
}

// RecoveryWithHandler lets handler decide which error a panic becomes.
func RecoveryWithHandler(
	handler func(panicVal any, command string, stack []byte) error,
	options ...MiddlewareOption,
) Middleware {
	config := newConfig(options)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack []byte
					if config.PrintStack {
						stack = make([]byte, config.StackSize)
						stack = stack[:runtime.Stack(stack, false)]
					}
					err = handler(r, getCommandName(ctx), stack)
				}
			}()

			return next(ctx)
		}
	}
}

// NoopRecovery lets panics propagate.
func NoopRecovery() Middleware {
	return func(next ActionFunc) ActionFunc {
		return next
	}
}
