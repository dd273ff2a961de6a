//nolint:testpackage // using package name 'mlarg' to access unexported fields for testing
package mlarg

import (
	"context"
	"errors"
	"fmt"
)

// testApp exercises every command shape the dispatcher supports.
type testApp struct {
	Parser
	Remote *remoteCmds
	Config configCmds `cmd:"cfg"`
	Hidden *remoteCmds `cmd:"-"`
}

type appArgs struct {
	Format  string `default:"text"`
	Verbose bool
	Cache   bool `default:"true"`
	Limit   *int
}

type listArgs struct {
	Nums  []int
	Tags  map[string]struct{} `default:"a"`
	Env   map[string]string   `default:""`
	Point [2]float64          `default:""`
}

type offArgs struct {
	NoCache bool
}

type spanArgs struct {
	Low  int `default:"0"`
	High int `default:"10"`
}

func (s *spanArgs) Validate() error {
	if s.Low > s.High {
		return errors.New("low must not exceed high")
	}
	return nil
}

type ctxKey struct{}

var errBoom = errors.New("boom")

func (a *testApp) Configure(c *Class) {
	c.Description = "Test application"
	c.ArgDesc["format"] = "Output format"
	c.ArgDesc["cache"] = "Use the cache"
	c.Doc("Run", "Run the thing\nWith more details.")
	c.Doc("Remote", "Manage remotes")
}

func (a *testApp) Run(args appArgs) (any, error) { return args, nil }

func (a *testApp) List(args *listArgs) any { return *args }

func (a *testApp) Clean(args offArgs) bool { return args.NoCache }

func (a *testApp) DumpConfig() string { return "dumped" }

func (a *testApp) Span(args spanArgs) int { return args.High - args.Low }

func (a *testApp) Lookup(ctx context.Context) any { return ctx.Value(ctxKey{}) }

func (a *testApp) Fail() error { return errBoom }

func (a *testApp) Quit() error { return &ExitError{Code: 42, Err: errBoom} }

func (a *testApp) Explode() { panic("kaboom") }

type remoteCmds struct {
	Parser
}

type addArgs struct {
	Name string
	URL  string
}

func (r *remoteCmds) Configure(c *Class) {
	c.Description = "Manage remotes"
	c.ArgDesc["url"] = "Remote URL"
}

func (r *remoteCmds) Add(args addArgs) string {
	return fmt.Sprintf("%d %s %s", r.Level(), args.Name, args.URL)
}

func (r *remoteCmds) Where() []any { return []any{r.Parent(), r.Top()} }

type configCmds struct {
	Parser
}

func (c *configCmds) Show() string { return "config" }

// Definitions with problems.

type clashApp struct{ Parser }

func (a *clashApp) RUN() {}
func (a *clashApp) Run() {}

type looseClashApp struct{ Parser }

func (a *looseClashApp) Configure(c *Class) { c.StrictValidation = false }
func (a *looseClashApp) RUN() string        { return "upper" }
func (a *looseClashApp) Run() string        { return "mixed" }

type doubleNegApp struct{ Parser }

func (a *doubleNegApp) Run(args struct{ NoNoCache bool }) {}

type pairApp struct{ Parser }

func (a *pairApp) Run(args struct {
	Cache   bool
	NoCache bool
}) {
}

type pairValueApp struct{ Parser }

func (a *pairValueApp) Run(args struct {
	Cache   string `default:"x"`
	NoCache bool
}) {
}

// runFieldApp declares a subparser whose tag clashes with the Run method.
type runFieldApp struct {
	Parser
	Jobs *remoteCmds `cmd:"run"`
}

func (a *runFieldApp) Run() string { return "method" }

type looseRunFieldApp struct {
	Parser
	Jobs *remoteCmds `cmd:"run"`
}

func (a *looseRunFieldApp) Configure(c *Class) { c.StrictValidation = false }
func (a *looseRunFieldApp) Run() string        { return "method" }

// tagApp names its subparsers with tags that need normalizing.
type tagApp struct {
	Parser
	Remote   *remoteCmds `cmd:"Remote"`
	Settings configCmds  `cmd:"dump_config"`
}

type caseTagApp struct {
	Parser
	Remote *remoteCmds `cmd:"Remote"`
}

func (a *caseTagApp) Configure(c *Class) { c.CaseSensitiveCommands = true }

type helpParamApp struct{ Parser }

func (a *helpParamApp) Run(args struct{ Help string }) {}

type badTypeArgs struct {
	Ch   chan int
	Name string `default:"x"`
}

type badTypeApp struct{ Parser }

func (a *badTypeApp) Run(args badTypeArgs) any { return args }

type badSigApp struct{ Parser }

func (a *badSigApp) Bad(n int) {}
func (a *badSigApp) Good()     {}

type loopApp struct {
	Parser
	Again *loopApp
}

func (a *loopApp) Run() {}

type ptrParserApp struct {
	*Parser
}

type docTypoApp struct{ Parser }

func (a *docTypoApp) Configure(c *Class) { c.Doc("Stat", "Show status") }
func (a *docTypoApp) Status()            {}

type caseApp struct{ Parser }

func (a *caseApp) Configure(c *Class) { c.CaseSensitiveCommands = true }
func (a *caseApp) DumpConfig() string { return "dumped" }

type helpCmdApp struct{ Parser }

func (a *helpCmdApp) Help() string { return "custom help" }

type shortApp struct{ Parser }

func (a *shortApp) Run(args struct {
	Verbose bool
	Version bool
}) {
}

type myApp struct{ Parser }

type myRunArgs struct {
	Format string `default:"text"`
}

func (a *myApp) Run(args myRunArgs) string { return args.Format }
