package logger

import (
	"log/slog"
	"time"

	"github.com/spf13/afero"
)

// Config holds the logger configuration.
type Config struct {
	// Path is the file snapshots are appended to. It is created if it does
	// not exist.
	Path string

	// FlushInterval is the time between two collection cycles
	// (default: 1s).
	FlushInterval time.Duration

	// QueueCapacity bounds the number of snapshots a single cycle can
	// carry. Snapshots beyond it are dropped. Must be a power of two
	// (default: 4096).
	QueueCapacity uint64
}

const (
	defaultPath          = "metrics.log"
	defaultFlushInterval = time.Second
	defaultQueueCapacity = 4096
)

// DefaultConfig returns the configuration used for zero fields.
func DefaultConfig() Config {
	return Config{
		Path:          defaultPath,
		FlushInterval: defaultFlushInterval,
		QueueCapacity: defaultQueueCapacity,
	}
}

func (c Config) withDefaults() Config {
	if c.Path == "" {
		c.Path = defaultPath
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = defaultFlushInterval
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = defaultQueueCapacity
	}
	return c
}

// Option configures a Logger constructed by New.
type Option func(*Logger)

// WithFs sets the filesystem the sink is opened on (default: the OS
// filesystem).
func WithFs(fs afero.Fs) Option {
	return func(l *Logger) { l.fs = fs }
}

// WithLogger sets the structured logger used for the worker's own
// diagnostics (default: slog.Default()).
func WithLogger(log *slog.Logger) Option {
	return func(l *Logger) { l.log = log }
}

// WithClock replaces time.Now when stamping snapshots.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// WithFlushHook registers fn to be called by the worker after every
// collection cycle, including cycles that produced no line. fn runs on the
// worker goroutine and must not block.
func WithFlushHook(fn func(FlushResult)) Option {
	return func(l *Logger) { l.hook = fn }
}
