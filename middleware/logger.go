package middleware

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger records each command invocation on logger: a debug line before the
// method runs and an info (or error) line with the duration afterwards.
// A nil logger writes to stderr with the "mlarg" prefix.
func Logger(logger *log.Logger, options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "mlarg"})
	}

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			command := getCommandName(ctx)
			keyvals := []any{"command", command}
			if config.IncludeArgs {
				keyvals = append(keyvals, "args", ctx.Args())
			}
			logger.Debug("invoking", keyvals...)

			start := time.Now()
			err := next(ctx)
			keyvals = append(keyvals, "duration", time.Since(start))

			if err != nil {
				logger.Error("command failed", append(keyvals, "err", err)...)
				return err
			}
			logger.Info("command finished", keyvals...)
			return nil
		}
	}
}

// DebugLogger is Logger at debug level on stderr.
func DebugLogger() Middleware {
	return Logger(log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "mlarg",
		Level:  log.DebugLevel,
	}))
}

// ErrorLogger only reports failed commands.
func ErrorLogger() Middleware {
	return Logger(log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "mlarg",
		Level:  log.ErrorLevel,
	}))
}
