// Package main contains the root of all commands.
package main

import (
	"os"

	"github.com/dankomiocevic/tally/cmd"
	"github.com/dankomiocevic/tally/cmd/bench"
	"github.com/dankomiocevic/tally/cmd/run"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	runCmd := run.NewRunCommand()
	rootCmd.AddCommand(runCmd)

	benchCmd := bench.NewBenchCommand()
	rootCmd.AddCommand(benchCmd)

	versionCmd := cmd.NewVersionCommand()
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
