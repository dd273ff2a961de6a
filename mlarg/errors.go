package mlarg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents error categories for parser definitions and command
// lines. The categories drive exit-code mapping (via ExitCodeManager).
type ErrorType string

const (
	ErrorTypeUnknownCommand     ErrorType = "unknown_command"
	ErrorTypeUnknownFlag        ErrorType = "unknown_flag"
	ErrorTypeMissingCommand     ErrorType = "missing_command"
	ErrorTypeInvalidValue       ErrorType = "invalid_value"
	ErrorTypeMissingValue       ErrorType = "missing_value"
	ErrorTypeMissingRequired    ErrorType = "missing_required"
	ErrorTypeUnexpectedArgument ErrorType = "unexpected_argument"
	ErrorTypeValidation         ErrorType = "validation"
	ErrorTypeUsage              ErrorType = "usage"
	ErrorTypeResolution         ErrorType = "resolution"
	ErrorTypeCollision          ErrorType = "collision"
)

// ErrHelpShown is returned by Run when help was printed instead of running
// a command.
var ErrHelpShown = errors.New("help shown")

// ResolutionError reports a parameter type, method signature or parser
// field that has no command-line meaning.
type ResolutionError struct {
	Node    string
	Command string
	Param   string
	Type    string
	Reason  string
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("cannot resolve ")
	switch {
	case e.Param != "" && e.Command != "":
		fmt.Fprintf(&b, "parameter %q of %s", e.Param, e.Command)
	case e.Param != "":
		fmt.Fprintf(&b, "parameter %q", e.Param)
	case e.Command != "":
		fmt.Fprintf(&b, "command %s", e.Command)
	default:
		fmt.Fprintf(&b, "parser %s", e.Node)
	}
	if e.Type != "" {
		fmt.Fprintf(&b, " (type %s)", e.Type)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// ErrorType implements typedError.
func (e *ResolutionError) ErrorType() ErrorType { return ErrorTypeResolution }

// CollisionError reports two declarations that map to the same command,
// option or destination name.
type CollisionError struct {
	Node        string
	Command     string
	Name        string
	Existing    string
	Conflicting string
	Reason      string
	Suggestion  string
}

func (e *CollisionError) Error() string {
	var b strings.Builder
	where := e.Node
	if e.Command != "" {
		where = e.Command
	}
	fmt.Fprintf(&b, "%s: %q", where, e.Name)
	switch {
	case e.Reason != "":
		fmt.Fprintf(&b, " %s", e.Reason)
	case e.Existing != "":
		fmt.Fprintf(&b, " from %s collides with %s", e.Conflicting, e.Existing)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestion)
	}
	return b.String()
}

// ErrorType implements typedError.
func (e *CollisionError) ErrorType() ErrorType { return ErrorTypeCollision }

// CompileError carries every problem found while compiling a parser tree.
type CompileError struct {
	Errors []error
}

func (e *CompileError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	lines := make([]string, 0, len(e.Errors)+1)
	lines = append(lines, fmt.Sprintf("%d problems in parser definition:", len(e.Errors)))
	for _, err := range e.Errors {
		lines = append(lines, "  "+err.Error())
	}
	return strings.Join(lines, "\n")
}

func (e *CompileError) Unwrap() []error { return e.Errors }

// UsageError is a command-line mistake: an unknown command or option, a bad
// value, a missing requirement. Usage holds the usage text of the command
// that rejected the input.
type UsageError struct {
	Type        ErrorType
	Message     string
	Command     string
	Usage       string
	Suggestions []string
	Cause       error
}

// NewUsageError creates a UsageError with the given type and message.
func NewUsageError(typ ErrorType, message string) *UsageError {
	return &UsageError{Type: typ, Message: message}
}

func (e *UsageError) Error() string {
	return e.Message
}

func (e *UsageError) Unwrap() error { return e.Cause }

// ErrorType implements typedError.
func (e *UsageError) ErrorType() ErrorType { return e.Type }

// WithSuggestion adds a suggestion to the error
func (e *UsageError) WithSuggestion(suggestion string) *UsageError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithCause adds an underlying cause to the error
func (e *UsageError) WithCause(cause error) *UsageError {
	e.Cause = cause
	return e
}

// WithUsage attaches the usage text of the offending command.
func (e *UsageError) WithUsage(command, usage string) *UsageError {
	e.Command = command
	e.Usage = usage
	return e
}

// Format renders the message, the suggestions and a pointer to --help.
func (e *UsageError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", e.Message)
	for _, s := range e.Suggestions {
		fmt.Fprintf(&b, "  %s\n", s)
	}
	if e.Command != "" {
		fmt.Fprintf(&b, "Run '%s --help' for usage.\n", e.Command)
	}
	return strings.TrimRight(b.String(), "\n")
}

type typedError interface {
	ErrorType() ErrorType
}

// classify maps an error reported by cobra or pflag to a category.
func classify(err error) ErrorType {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unknown command"):
		return ErrorTypeUnknownCommand
	case strings.HasPrefix(msg, "unknown flag"), strings.HasPrefix(msg, "unknown shorthand flag"):
		return ErrorTypeUnknownFlag
	case strings.HasPrefix(msg, "invalid argument"):
		return ErrorTypeInvalidValue
	case strings.HasPrefix(msg, "flag needs an argument"):
		return ErrorTypeMissingValue
	case strings.HasPrefix(msg, "required flag"):
		return ErrorTypeMissingRequired
	default:
		return ErrorTypeUsage
	}
}

// passthrough marks errors that must leave a dispatch level unchanged:
// errors of user methods and of nested levels.
type passthrough struct{ err error }

func (p *passthrough) Error() string { return p.err.Error() }
func (p *passthrough) Unwrap() error { return p.err }
