// Package middleware wraps mlarg command invocations.
// Logger, Recovery, Timeout and Validator are provided.
package middleware

import (
	"context"
	"fmt"
	"time"
)

// The mlarg package implements these interfaces; middleware never imports it.

// Context describes one command invocation as seen by middleware. It is
// implemented by mlarg's invocation record.
type Context interface {
	// Context returns the Go context the command method will receive.
	Context() context.Context

	// SetContext replaces the Go context handed to the command method and to
	// the rest of the chain. Middleware use it to attach deadlines or values.
	SetContext(ctx context.Context)

	// Args returns the raw tokens given to the command after its name.
	Args() []string

	// Param returns the converted value of a parameter by its snake_case
	// name and whether the user supplied it on the command line.
	Param(name string) (any, bool)

	// Set stores a key/value pair for later middleware.
	Set(key string, value any)

	// Get returns a value stored with Set, or nil.
	Get(key string) any

	// Command describes the command being invoked.
	Command() Command
}

// Command names the command being invoked. mlarg passes its full path
// and doc text.
type Command interface {
	Name() string
	Description() string
}

// ActionFunc runs a command.
type ActionFunc func(ctx Context) error

// Middleware wraps an ActionFunc.
type Middleware func(next ActionFunc) ActionFunc

// MiddlewareChain is an ordered list of middleware.
type MiddlewareChain []Middleware

// Apply wraps action so that the first middleware in the chain runs first.
func (chain MiddlewareChain) Apply(action ActionFunc) ActionFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		action = chain[i](action)
	}
	return action
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	out := make(MiddlewareChain, 0, len(chain)+len(middleware))
	out = append(out, chain...)
	return append(out, middleware...)
}

// Chain creates a chain from the provided middleware, preserving order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// ValidationError is returned by Validator when a parameter check fails.
type ValidationError struct {
	Param   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// TimeoutError reports a command that outlived its deadline.
type TimeoutError struct {
	Duration time.Duration
	Command  string
}

func (e *TimeoutError) Error() string {
	return "command '" + e.Command + "' timed out after " + e.Duration.String()
}

func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// RecoveryError represents a panic recovered from a command method.
type RecoveryError struct {
	Panic   any
	Command string
	Stack   []byte
}

func (e *RecoveryError) Error() string {
	return "command '" + e.Command + "' panicked: " + toString(e.Panic)
}

// MiddlewareConfig holds the knobs shared by the built-in middleware.
type MiddlewareConfig struct {
	IncludeArgs      bool
	PrintStack       bool
	StackSize        int
	DefaultTimeout   time.Duration
	CustomValidators map[string]ValidatorFunc
}

// MiddlewareOption configures a MiddlewareConfig.
type MiddlewareOption func(config *MiddlewareConfig)

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		IncludeArgs:      true,
		PrintStack:       false,
		StackSize:        4096,
		DefaultTimeout:   30 * time.Second,
		CustomValidators: make(map[string]ValidatorFunc),
	}
}

func newConfig(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

// WithArgs controls whether Logger records the raw argument tokens.
func WithArgs(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.IncludeArgs = enabled
	}
}

func WithTimeout(timeout time.Duration) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.DefaultTimeout = timeout
	}
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.PrintStack = enabled
	}
}

// WithCustomValidators registers validators that Validator runs by name.
func WithCustomValidators(validators map[string]ValidatorFunc) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		for name, fn := range validators {
			config.CustomValidators[name] = fn
		}
	}
}

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}

func getCommandName(ctx Context) string {
	cmd := ctx.Command()
	if cmd == nil {
		return "unknown"
	}
	return cmd.Name()
}
