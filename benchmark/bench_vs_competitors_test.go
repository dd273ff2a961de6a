//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/urfave/cli/v2"

	"github.com/dzonerzy/go-mlarg/mlarg"
)

// Benchmark simple CLI with basic flags
// Tests parsing performance with int and bool flags
// All three execute a command with flags for fair comparison

type benchApp struct {
	mlarg.Parser
	Server *benchServer
}

type benchRunArgs struct {
	Port    int `default:"8080"`
	Verbose bool
}

func (a *benchApp) Run(benchRunArgs) error { return nil }

type benchListArgs struct {
	Files []string
	Tags  map[string]struct{} `default:""`
}

func (a *benchApp) List(benchListArgs) error { return nil }

type benchServer struct {
	mlarg.Parser
}

type benchServeArgs struct {
	Port int    `default:"8080"`
	Host string `default:"localhost"`
}

func (s *benchServer) Serve(benchServeArgs) error { return nil }

func newBenchInstance(b *testing.B) *mlarg.Instance {
	b.Helper()
	inst, err := mlarg.New(&benchApp{}, mlarg.NoParse(), mlarg.WithName("bench"), mlarg.WithOutput(io.Discard, io.Discard))
	if err != nil {
		b.Fatal(err)
	}
	return inst
}

func BenchmarkSimpleCLI_Mlarg(b *testing.B) {
	inst := newBenchInstance(b)
	args := []string{"run", "--port", "9000", "--verbose"}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = inst.Run(ctx, args)
	}
}

func BenchmarkSimpleCLI_Cobra(b *testing.B) {
	args := []string{"run", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		runCmd := &cobra.Command{
			Use: "run",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		runCmd.Flags().IntP("port", "p", 8080, "Server port")
		runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
		rootCmd.AddCommand(runCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSimpleCLI_Urfave(b *testing.B) {
	args := []string{"bench", "run", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "run",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "port", Value: 8080, Usage: "Server port"},
						&cli.BoolFlag{Name: "verbose", Usage: "Verbose output"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

// Benchmark with a second dispatch level
// mlarg spawns a child instance; cobra and urfave route to a nested command

func BenchmarkSubcommands_Mlarg(b *testing.B) {
	inst := newBenchInstance(b)
	args := []string{"server", "serve", "--port", "9000", "--host", "0.0.0.0"}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = inst.Run(ctx, args)
	}
}

func BenchmarkSubcommands_Cobra(b *testing.B) {
	args := []string{"server", "serve", "--port", "9000", "--host", "0.0.0.0"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		serverCmd := &cobra.Command{Use: "server"}
		serveCmd := &cobra.Command{
			Use: "serve",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		serveCmd.Flags().IntP("port", "p", 8080, "Server port")
		serveCmd.Flags().String("host", "localhost", "Server host")
		serverCmd.AddCommand(serveCmd)
		rootCmd.AddCommand(serverCmd)

		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSubcommands_Urfave(b *testing.B) {
	args := []string{"bench", "server", "serve", "--port", "9000", "--host", "0.0.0.0"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "server",
					Subcommands: []*cli.Command{
						{
							Name: "serve",
							Flags: []cli.Flag{
								&cli.IntFlag{Name: "port", Value: 8080},
								&cli.StringFlag{Name: "host", Value: "localhost"},
							},
							Action: func(_ *cli.Context) error { return nil },
						},
					},
				},
			},
		}
		_ = app.Run(args)
	}
}

// Benchmark multi-valued options
// mlarg accepts "--files a b c"; cobra and urfave take repeated flags

func BenchmarkMultiValue_Mlarg(b *testing.B) {
	inst := newBenchInstance(b)
	args := []string{"list", "--files", "a.go", "b.go", "c.go", "--tags", "x", "y"}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = inst.Run(ctx, args)
	}
}

func BenchmarkMultiValue_Cobra(b *testing.B) {
	args := []string{"list", "--files", "a.go", "--files", "b.go", "--files", "c.go", "--tags", "x", "--tags", "y"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		listCmd := &cobra.Command{
			Use: "list",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		listCmd.Flags().StringArray("files", nil, "Files")
		listCmd.Flags().StringArray("tags", nil, "Tags")
		rootCmd.AddCommand(listCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkMultiValue_Urfave(b *testing.B) {
	args := []string{"bench", "list", "--files", "a.go", "--files", "b.go", "--files", "c.go", "--tags", "x", "--tags", "y"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "list",
					Flags: []cli.Flag{
						&cli.StringSliceFlag{Name: "files"},
						&cli.StringSliceFlag{Name: "tags"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

// Benchmark compiling the command tree from the parser type

func BenchmarkCompile_Mlarg(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = mlarg.Compile(&benchApp{}, mlarg.WithName("bench"))
	}
}
