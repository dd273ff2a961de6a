// Package mlarg builds multi-level command-line parsers from Go types.
//
// A parser type embeds Parser. Its exported methods become commands, its
// exported fields holding other parser types become subcommand levels, and
// the fields of each method's argument struct become that command's
// options:
//
//	type App struct {
//		mlarg.Parser
//		Remote *Remote
//	}
//
//	type RunArgs struct {
//		Format  string `default:"text"`
//		Verbose bool
//		NoCache bool
//		Files   []string
//	}
//
//	func (a *App) Run(args RunArgs) error { ... }
//
//	func main() {
//		mlarg.Main(&App{})
//	}
//
// gives "app run --format json -v --no-cache --files a b c" and
// "app remote ...". Method and field names are split into words and joined
// with dashes (DumpConfig is dump-config), argument fields become
// snake_case parameters shown as --long-names, and each option claims the
// first free letter of its destination as a short option.
//
// Boolean parameters are switches. A parameter defaulting to true also gets
// --no-x; a parameter named no_x registers only --no-x and writes x.
// Slices, arrays, sets (map[T]struct{}) and maps with string keys accept
// several values per occurrence and accumulate over repeated occurrences.
//
// Compile reports a parser definition that has no command-line meaning
// (unsupported types, clashing names) as a *CompileError. Class settings
// decide which problems are fatal and which only warn. Command-line
// mistakes are *UsageError values carrying the usage text of the command
// that rejected them; Main maps errors to exit codes via ExitCodeManager.
package mlarg
