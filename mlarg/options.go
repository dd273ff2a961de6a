package mlarg

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dzonerzy/go-mlarg/middleware"
)

// Setting configures Compile, New and Main.
type Setting func(*settings)

type settings struct {
	level       int
	parent      *Instance
	top         *Instance
	noParse     bool
	strictTypes *bool
	args        []string
	argsSet     bool
	name        string
	ctx         context.Context
	out         io.Writer
	errOut      io.Writer
	logger      *log.Logger
	middleware  middleware.MiddlewareChain
	exitCodes   *ExitCodeManager
}

func newSettings(opts []Setting) *settings {
	s := &settings{
		level:  1,
		ctx:    context.Background(),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *settings) log() *log.Logger {
	if s.logger == nil {
		s.logger = log.NewWithOptions(s.errOut, log.Options{
			Prefix: "mlarg",
			Level:  log.WarnLevel,
		})
	}
	return s.logger
}

// argv returns the tokens to dispatch: WithArgs, or the process arguments
// after the first level entries.
func (s *settings) argv() []string {
	if s.argsSet {
		return s.args
	}
	if s.level >= len(os.Args) {
		return []string{}
	}
	return os.Args[s.level:]
}

func (s *settings) chain() middleware.MiddlewareChain {
	return middleware.Chain(middleware.RecoveryTo(s.errOut)).Use(s.middleware...)
}

func (s *settings) exitCodeManager() *ExitCodeManager {
	if s.exitCodes == nil {
		s.exitCodes = NewExitCodeManager()
	}
	return s.exitCodes
}

// WithLevel sets the nesting level of the instance; 1 is the top level.
func WithLevel(level int) Setting {
	return func(s *settings) { s.level = level }
}

// WithParent sets the parent instance.
func WithParent(parent *Instance) Setting {
	return func(s *settings) { s.parent = parent }
}

// WithTop sets the top-level instance.
func WithTop(top *Instance) Setting {
	return func(s *settings) { s.top = top }
}

// NoParse makes New compile and bind without dispatching.
func NoParse() Setting {
	return func(s *settings) { s.noParse = true }
}

// StrictTypes overrides Class.StrictTypes for the whole tree.
func StrictTypes(strict bool) Setting {
	return func(s *settings) { s.strictTypes = &strict }
}

// WithArgs sets the tokens New dispatches instead of os.Args.
func WithArgs(args []string) Setting {
	return func(s *settings) {
		s.args = append([]string{}, args...)
		s.argsSet = true
	}
}

// WithName sets the program name shown in help and errors.
func WithName(name string) Setting {
	return func(s *settings) { s.name = name }
}

// WithContext sets the context handed to command methods.
func WithContext(ctx context.Context) Setting {
	return func(s *settings) { s.ctx = ctx }
}

// WithOutput redirects help (out) and diagnostics (errOut).
func WithOutput(out, errOut io.Writer) Setting {
	return func(s *settings) {
		if out != nil {
			s.out = out
		}
		if errOut != nil {
			s.errOut = errOut
		}
	}
}

// WithLogger replaces the logger used for warnings and debug output.
func WithLogger(logger *log.Logger) Setting {
	return func(s *settings) { s.logger = logger }
}

// Use appends middleware around every command invocation.
func Use(mw ...middleware.Middleware) Setting {
	return func(s *settings) { s.middleware = s.middleware.Use(mw...) }
}

// WithExitCodes replaces the exit-code mapping used by Main.
func WithExitCodes(m *ExitCodeManager) Setting {
	return func(s *settings) { s.exitCodes = m }
}
