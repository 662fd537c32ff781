// goapcore runs goal-oriented action planning scenarios written in Lua.
// Usage: goapcore [--config <file>] <command> [flags] <scenario_dir>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nathoo/goapcore/cli"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version, cli.GitCommit, cli.BuildDate = version, commit, date

	if err := cli.New().Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
