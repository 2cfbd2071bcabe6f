// Package run contains the command that runs the logger against the demo workload.
package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dankomiocevic/tally/internal/config"
	"github.com/dankomiocevic/tally/internal/workload"
	"github.com/dankomiocevic/tally/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type exiter interface {
	Exit(int)
}

type osExit struct{}

func (osExit) Exit(code int) {
	os.Exit(code)
}

func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the metrics logger",
		Long:  "Run the metrics logger with a demo workload until interrupted or until --duration elapses.",
		Run:   run,
		Args:  cobra.NoArgs,
	}

	defaultConfig := config.DefaultConfig()
	flags := cmd.Flags()
	flags.String("output", defaultConfig.Output, "the file metric lines are appended to")
	flags.Duration("interval", defaultConfig.FlushInterval, "the time between two flush cycles")
	flags.Uint64("queue-capacity", defaultConfig.QueueCapacity, "the snapshot queue capacity, a power of two")
	flags.Int("producers", defaultConfig.Workload.Producers, "goroutines driving each demo metric")
	flags.Duration("duration", defaultConfig.Workload.Duration, "stop after this long (0 runs until interrupted)")
	flags.String("log-level", defaultConfig.LogLevel, "debug, info, warn or error")

	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("flush_interval", flags.Lookup("interval"))
	viper.BindPFlag("queue_capacity", flags.Lookup("queue-capacity"))
	viper.BindPFlag("workload.producers", flags.Lookup("producers"))
	viper.BindPFlag("workload.duration", flags.Lookup("duration"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))

	return cmd
}

func run(cmd *cobra.Command, _ []string) {
	runWithExit(osExit{}, cmd.OutOrStdout())
}

func runWithExit(e exiter, out io.Writer) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(out, "Error loading configuration: %s\n", err)
		e.Exit(1)
		return
	}

	if err := cfg.Verify(); err != nil {
		fmt.Fprintf(out, "Invalid configuration: %s\n", err)
		e.Exit(2)
		return
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	l, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		fmt.Fprintf(out, "Error starting logger: %s\n", err)
		e.Exit(3)
		return
	}

	demo := workload.NewDemo()
	for _, m := range demo.Metrics() {
		l.RegisterMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Workload.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Workload.Duration)
		defer cancel()
	}

	fmt.Fprintf(out, "Logging metrics to %s every %s\n", cfg.Output, cfg.FlushInterval)
	demo.Run(ctx, cfg.Workload.Producers)

	fmt.Fprintln(out, "Shutting down logger..")
	l.Stop()

	s := l.Status()
	fmt.Fprintf(out, "Wrote %d lines (%d snapshots, %d dropped, %d failures)\n", s.Lines, s.Written, s.Dropped, s.Failures)
	if s.LastErr != nil {
		fmt.Fprintf(out, "Last error: %s\n", s.LastErr)
	}
}
