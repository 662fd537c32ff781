package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/goapcore/loader"
)

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario_dir>",
		Short: "Check a scenario for errors",
		Long: `Load a scenario directory and check it for correctness.

This command checks:
  - Lua syntax and the Scenario{} block
  - Belief, location and sensor references
  - Duplicate agents, sensors, beliefs, actions and goals
  - Actions without effects or with unknown strategies
  - Condition and effect types in beliefs and handlers

Goals no action can reach and locations outside the world are reported
as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateScenario(args[0])
		},
	}
}

func (a *App) validateScenario(dir string) error {
	defs, err := loader.Compile(dir)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	ve := loader.Validate(defs)
	for _, w := range ve.Warnings {
		fmt.Fprintf(a.stdout, "warning: %s\n", w)
	}
	for _, e := range ve.Errors {
		fmt.Fprintf(a.stdout, "error: %s\n", e)
	}
	if len(ve.Errors) > 0 {
		return fmt.Errorf("validation failed with %d error(s)", len(ve.Errors))
	}

	fmt.Fprintf(a.stdout, "Scenario %q is valid: %d agent(s), %d location(s), %d handler(s).\n",
		defs.Scenario.Title, len(defs.Agents), len(defs.Locations), len(defs.Handlers))
	return nil
}
