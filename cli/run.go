package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"

	"github.com/nathoo/goapcore/engine"
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/loader"
	"github.com/nathoo/goapcore/tui"
)

// runOptions holds options for the run command.
type runOptions struct {
	plain      bool
	scriptPath string
	trace      bool
	ticks      int
	seed       int64
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <scenario_dir>",
		Short: "Run a scenario",
		Long: `Load a scenario directory of Lua files and run it.

On a terminal the live view starts and ticks on its own. Piped output,
--plain and --script use the line console instead, where time only moves
when you tick or run it.

Examples:
  # Live view
  goapcore run scenarios/guard

  # Line console with a runtime config
  goapcore run -c configs/goapcore.yaml --plain scenarios/guard

  # Play back a command script
  goapcore run --script demo.txt scenarios/guard

  # Headless: advance 300 ticks and print what happened
  goapcore run --ticks 300 scenarios/guard`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScenario(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Use the line console even on a terminal")
	cmd.Flags().StringVar(&opts.scriptPath, "script", "", "Read console commands from a file")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Print events and effects after each command")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "Run headless for this many ticks, then exit")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Override the scenario's random seed")

	return cmd
}

// runScenario loads the scenario and hands it to the live view, the
// console or the headless runner.
func (a *App) runScenario(ctx context.Context, dir string, opts *runOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	live := opts.ticks == 0 && opts.scriptPath == "" && !opts.plain && isTerminal(a.stdout)
	var fallback io.Writer = a.stderr
	if live {
		fallback = io.Discard
	}
	logger, closeLog, err := newLogger(cfg, fallback)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	defs, err := loader.Load(dir)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	if opts.seed != 0 {
		defs.Scenario.Seed = opts.seed
	}

	var (
		report *meterReport
		mp     metric.MeterProvider
	)
	if cfg.Metrics.Enabled {
		report = newMeterReport()
		mp = report.provider
	}
	eng, err := newEngine(defs, cfg, logger, mp)
	if err != nil {
		return err
	}
	defer func() {
		if err := printMetrics(context.Background(), a.stderr, report); err != nil {
			logger.Warn("metrics report failed", "error", err)
		}
	}()
	logger.Info("scenario loaded",
		"title", defs.Scenario.Title,
		"agents", len(defs.Agents),
		"tick_seconds", cfg.TickSeconds(),
	)

	switch {
	case opts.ticks > 0:
		return a.runHeadless(ctx, defs, eng, opts)

	case opts.scriptPath != "":
		f, err := os.Open(opts.scriptPath)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		a.printBanner(defs)
		c := NewCLI(eng, defs, cfg.Saves.Dir)
		c.In, c.Out = f, a.stdout
		c.EchoInput = true
		c.Trace = opts.trace
		c.Run()
		return nil

	case !live:
		a.printBanner(defs)
		c := NewCLI(eng, defs, cfg.Saves.Dir)
		c.In, c.Out = a.stdin, a.stdout
		c.Trace = opts.trace
		c.Run()
		return nil
	}

	interval := time.Duration(float64(time.Second) * cfg.TickSeconds() / cfg.Sim.TimeScale)
	return tui.Run(ctx, eng, defs, tui.Options{SaveDir: cfg.Saves.Dir, TickInterval: interval})
}

// runHeadless advances the engine without a console and prints its output.
func (a *App) runHeadless(ctx context.Context, defs *state.Defs, eng *engine.Engine, opts *runOptions) error {
	a.printBanner(defs)
	for i := 0; i < opts.ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := eng.Tick(1)
		for _, line := range r.Output {
			fmt.Fprintln(a.stdout, line)
		}
		if opts.trace {
			for _, line := range TraceLines(r) {
				fmt.Fprintln(a.stdout, line)
			}
		}
		if state.GetFlag(eng.State, "game_over") {
			break
		}
	}
	for _, line := range eng.Command("status").Output {
		fmt.Fprintln(a.stdout, line)
	}
	return nil
}

func (a *App) printBanner(defs *state.Defs) {
	sc := defs.Scenario
	fmt.Fprintf(a.stdout, "%s v%s by %s\n\n", sc.Title, sc.Version, sc.Author)
}

// isTerminal returns true if w is a terminal (not piped/redirected).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
