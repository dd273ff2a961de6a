package mlarg

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// RunAndGetExitCode dispatches os.Args (or WithArgs) on proto, reports any
// error on the error writer and returns the mapped exit code. Useful for
// embedding in your own main() without os.Exit.
func RunAndGetExitCode(proto any, opts ...Setting) int {
	s := newSettings(opts)
	_, err := New(proto, opts...)
	if err != nil && !errors.Is(err, ErrHelpShown) {
		reportError(s.errOut, err)
	}
	return s.exitCodeManager().Resolve(err)
}

// Main dispatches the command line and terminates the process with the
// mapped exit code.
//
//	func main() {
//		mlarg.Main(&App{})
//	}
func Main(proto any, opts ...Setting) {
	os.Exit(RunAndGetExitCode(proto, opts...))
}

// reportError prints err with a styled "Error:" label. Usage errors add
// their suggestions and a pointer to --help.
func reportError(w io.Writer, err error) {
	r := lipgloss.NewRenderer(w)
	label := r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Render("Error:")

	var ue *UsageError
	if !errors.As(err, &ue) {
		fmt.Fprintf(w, "%s %s\n", label, err)
		return
	}

	fmt.Fprintf(w, "%s %s\n", label, ue.Message)
	hint := r.NewStyle().Faint(true)
	for _, s := range ue.Suggestions {
		fmt.Fprintf(w, "  %s\n", hint.Render(s))
	}
	if ue.Command != "" {
		fmt.Fprintf(w, "Run '%s --help' for usage.\n", ue.Command)
	}
}
