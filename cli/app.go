package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"

	"github.com/nathoo/goapcore/config"
	"github.com/nathoo/goapcore/engine"
	"github.com/nathoo/goapcore/engine/state"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root       *cobra.Command
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	configPath string
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "goapcore",
		Short: "Goal-oriented action planning simulator",
		Long: `goapcore runs Lua-scripted scenarios in which agents pick goals, plan
a chain of actions to reach them and carry the plan out tick by tick,
replanning when the world changes under them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	app.root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "Path to a YAML runtime config")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newValidateCmd(),
		app.newRunCmd(),
		app.newPlanCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithInput sets the reader the console reads commands from.
func (a *App) WithInput(stdin io.Reader) *App {
	a.stdin = stdin
	a.root.SetIn(stdin)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "goapcore version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}

// loadConfig returns the config named by --config, or the defaults.
func (a *App) loadConfig() (*config.Config, error) {
	if a.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(a.configPath)
}

// newLogger builds the process logger. Logs go to log.file when set and to
// fallback otherwise. The returned func closes the file.
func newLogger(cfg *config.Config, fallback io.Writer) (*slog.Logger, func() error, error) {
	if cfg.Log.File == "" {
		return slog.New(cfg.Log.Handler(fallback)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(cfg.Log.Handler(f)), f.Close, nil
}

// newEngine builds an engine for defs using the runtime config. A nil mp
// records into the global meter provider.
func newEngine(defs *state.Defs, cfg *config.Config, logger *slog.Logger, mp metric.MeterProvider) (*engine.Engine, error) {
	return engine.New(defs, engine.Options{
		Logger:           logger,
		MeterProvider:    mp,
		TickSeconds:      cfg.TickSeconds(),
		MaxDepth:         cfg.Planner.MaxDepth,
		MaxActionSeconds: cfg.Watchdog.MaxActionSeconds,
		MaxTicks:         cfg.Sim.MaxTicks,
	})
}
