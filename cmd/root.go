// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dankomiocevic/tally/internal/config"
)

// NewRootCommand enables all children commands to read flags from CLI flags, environment variables prefixed with TALLY, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("TALLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{"/etc/tally", "$HOME/.tally", "."}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}
	config.SetDefaults()

	return &cobra.Command{
		Use:   "tally",
		Short: "Periodically append in-process metrics to a log file",
		Long: `Tally collects counters and gauges updated by application goroutines and
appends them, once per flush interval, as timestamped lines to a log file.

The run command drives a demo workload through the logger; bench measures the
lock-free snapshot queue under concurrent producers and consumers.`,
		SilenceUsage: true,
	}
}
