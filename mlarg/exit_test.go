//nolint:testpackage // using package name 'mlarg' to access unexported fields for testing
package mlarg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dzonerzy/go-mlarg/middleware"
)

type customError struct{ msg string }

func (e *customError) Error() string { return e.msg }

func TestExitCodeManagerResolve(t *testing.T) {
	m := NewExitCodeManager()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"help", ErrHelpShown, 0},
		{"wrapped help", fmt.Errorf("run: %w", ErrHelpShown), 0},
		{"exit error", &ExitError{Code: 42}, 42},
		{"wrapped exit error", fmt.Errorf("outer: %w", &ExitError{Code: 7}), 7},
		{"usage", NewUsageError(ErrorTypeUnknownFlag, "unknown flag: --x"), 2},
		{"validation", NewUsageError(ErrorTypeValidation, "bad"), 3},
		{"collision", &CompileError{Errors: []error{&CollisionError{Name: "run"}}}, 70},
		{"resolution", &ResolutionError{Reason: "nope"}, 70},
		{"middleware validation", &middleware.ValidationError{Param: "p", Message: "bad"}, 3},
		{"timeout", &middleware.TimeoutError{Command: "c"}, 1},
		{"plain", errors.New("boom"), 1},
		{"deadline", context.DeadlineExceeded, 1},
	}

	for _, tt := range tests {
		if got := m.Resolve(tt.err); got != tt.want {
			t.Errorf("Resolve(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestExitCodeManagerOverrides(t *testing.T) {
	m := NewExitCodeManager().
		Default(ExitCodeDefaults{Success: 0, GeneralError: 10, MisusageError: 64, ValidationError: 65, DefinitionError: 78}).
		DefineCategory(ErrorTypeMissingRequired, 66).
		DefineError(&customError{}, 99)

	tests := []struct {
		err  error
		want int
	}{
		{NewUsageError(ErrorTypeUnknownCommand, "unknown command"), 64},
		{NewUsageError(ErrorTypeMissingRequired, "required flag(s)"), 66},
		{NewUsageError(ErrorTypeValidation, "bad"), 65},
		{&ResolutionError{}, 78},
		{fmt.Errorf("wrapped: %w", &customError{msg: "x"}), 99},
		{errors.New("other"), 10},
	}

	for _, tt := range tests {
		if got := m.Resolve(tt.err); got != tt.want {
			t.Errorf("Resolve(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}

	if m.DefineError(nil, 5) != m {
		t.Error("DefineError(nil) should return the manager unchanged")
	}
}

type quotaError struct{}

func (e *quotaError) Error() string { return "quota exceeded" }

func TestExitCodeManagerDefinitionOrder(t *testing.T) {
	m := NewExitCodeManager().
		DefineError(&quotaError{}, 7).
		DefineError(&customError{}, 8)
	err := errors.Join(&customError{msg: "x"}, &quotaError{})

	for i := 0; i < 20; i++ {
		if got := m.Resolve(err); got != 7 {
			t.Fatalf("Resolve(%v) = %d, want 7 from the earlier definition", err, got)
		}
	}

	m.DefineError(&quotaError{}, 9)
	if got := m.Resolve(err); got != 9 {
		t.Errorf("Resolve after redefinition = %d, want 9", got)
	}
}

func exitCode(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := RunAndGetExitCode(&testApp{}, WithName("app"), WithArgs(args), WithOutput(&out, &errOut))
	return code, out.String(), errOut.String()
}

func TestRunAndGetExitCode(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"success", []string{"run"}, 0, ""},
		{"help", []string{"--help"}, 0, ""},
		{"missing command", nil, 2, "missing command"},
		{"unknown command", []string{"runn"}, 2, "Did you mean 'run'?"},
		{"usage pointer", []string{"run", "--bogus"}, 2, "Run 'app run --help' for usage."},
		{"validation", []string{"span", "--low", "9", "--high", "1"}, 3, "low must not exceed high"},
		{"method error", []string{"fail"}, 1, "boom"},
		{"exit error", []string{"quit"}, 42, "boom"},
		{"panic", []string{"explode"}, 1, "kaboom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := exitCode(tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.code, stderr)
			}
			if tt.stderr == "" {
				if stderr != "" {
					t.Errorf("unexpected stderr: %q", stderr)
				}
				return
			}
			if !strings.Contains(stderr, "Error:") || !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr = %q, want an Error: line containing %q", stderr, tt.stderr)
			}
		})
	}
}

func TestRunAndGetExitCodeDefinitionError(t *testing.T) {
	var errOut bytes.Buffer
	code := RunAndGetExitCode(&clashApp{}, WithName("app"), WithArgs([]string{"run"}), WithOutput(&bytes.Buffer{}, &errOut))
	if code != 70 {
		t.Errorf("exit code = %d, want 70", code)
	}
	if !strings.Contains(errOut.String(), `"run"`) {
		t.Errorf("stderr = %q, want the collision", errOut.String())
	}
}

func TestRunAndGetExitCodeCustomManager(t *testing.T) {
	m := NewExitCodeManager().DefineCategory(ErrorTypeMissingCommand, 5)
	code := RunAndGetExitCode(&testApp{},
		WithName("app"), WithArgs(nil), WithOutput(&bytes.Buffer{}, &bytes.Buffer{}), WithExitCodes(m))
	if code != 5 {
		t.Errorf("exit code = %d, want 5", code)
	}
}

func TestUsageErrorFormat(t *testing.T) {
	err := NewUsageError(ErrorTypeUnknownCommand, `unknown command "runn" for "app"`).
		WithSuggestion("Did you mean 'run'?").
		WithUsage("app", "Usage: app [command]")

	want := "Error: unknown command \"runn\" for \"app\"\n  Did you mean 'run'?\nRun 'app --help' for usage."
	if got := err.Format(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		msg  string
		want ErrorType
	}{
		{`unknown command "x" for "app"`, ErrorTypeUnknownCommand},
		{"unknown flag: --x", ErrorTypeUnknownFlag},
		{"unknown shorthand flag: 'x' in -x", ErrorTypeUnknownFlag},
		{`invalid argument "x" for "--n" flag: bad`, ErrorTypeInvalidValue},
		{"flag needs an argument: --format", ErrorTypeMissingValue},
		{`required flag(s) "nums" not set`, ErrorTypeMissingRequired},
		{"something else", ErrorTypeUsage},
	}
	for _, tt := range tests {
		if got := classify(errors.New(tt.msg)); got != tt.want {
			t.Errorf("classify(%q) = %s, want %s", tt.msg, got, tt.want)
		}
	}
}
