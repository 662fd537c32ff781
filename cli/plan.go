package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/goapcore/loader"
)

// planOptions holds options for the plan command.
type planOptions struct {
	agent string
	after int
}

// newPlanCmd creates the plan command.
func (a *App) newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan <scenario_dir>",
		Short: "Show what each agent wants and how it would get there",
		Long: `Load a scenario and print every agent's goals and the plan it would
follow, without starting a console.

Examples:
  # Plans at the start of the scenario
  goapcore plan scenarios/guard

  # One agent, after ten simulated seconds
  goapcore plan --agent guard --after 100 scenarios/guard`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showPlans(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.agent, "agent", "", "Only show this agent")
	cmd.Flags().IntVar(&opts.after, "after", 0, "Advance this many ticks first")

	return cmd
}

func (a *App) showPlans(ctx context.Context, dir string, opts *planOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, a.stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	defs, err := loader.Load(dir)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	eng, err := newEngine(defs, cfg, logger, nil)
	if err != nil {
		return err
	}

	for i := 0; i < opts.after; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		eng.Tick(1)
	}

	suffix := ""
	if opts.agent != "" {
		suffix = " " + opts.agent
	}
	for _, verb := range []string{"goals", "plan"} {
		for _, line := range eng.Command(verb + suffix).Output {
			fmt.Fprintln(a.stdout, line)
		}
	}
	return nil
}
