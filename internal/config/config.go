package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dankomiocevic/tally/logger"
	"github.com/dankomiocevic/tally/ring"
)

type WorkloadConfig struct {
	// Producers is the number of goroutines driving each demo metric.
	Producers int `mapstructure:"producers"`

	// Duration stops the run after the given time. Zero runs until a
	// signal is received.
	Duration time.Duration `mapstructure:"duration"`
}

type Config struct {
	Output        string         `mapstructure:"output"`
	FlushInterval time.Duration  `mapstructure:"flush_interval"`
	QueueCapacity uint64         `mapstructure:"queue_capacity"`
	LogLevel      string         `mapstructure:"log_level"`
	Workload      WorkloadConfig `mapstructure:"workload"`
}

func DefaultConfig() *Config {
	lc := logger.DefaultConfig()
	return &Config{
		Output:        lc.Path,
		FlushInterval: lc.FlushInterval,
		QueueCapacity: lc.QueueCapacity,
		LogLevel:      "info",
		Workload: WorkloadConfig{
			Producers: 1,
		},
	}
}

// SetDefaults registers every key with viper so environment variables
// are picked up by Unmarshal even when no config file sets them.
func SetDefaults() {
	d := DefaultConfig()
	viper.SetDefault("output", d.Output)
	viper.SetDefault("flush_interval", d.FlushInterval)
	viper.SetDefault("queue_capacity", d.QueueCapacity)
	viper.SetDefault("log_level", d.LogLevel)
	viper.SetDefault("workload.producers", d.Workload.Producers)
	viper.SetDefault("workload.duration", d.Workload.Duration)
}

func LoadConfig() (*Config, error) {
	config := DefaultConfig()
	SetDefaults()

	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

func (c *Config) Verify() error {
	if c.Output == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	if c.FlushInterval <= 0 {
		return fmt.Errorf("flush interval must be positive, got %s", c.FlushInterval)
	}

	if c.QueueCapacity < 2 || c.QueueCapacity&(c.QueueCapacity-1) != 0 {
		return fmt.Errorf("invalid queue capacity %d: %w", c.QueueCapacity, ring.ErrCapacity)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Workload.Producers < 1 {
		return fmt.Errorf("workload producers must be at least 1, got %d", c.Workload.Producers)
	}

	return nil
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Path:          c.Output,
		FlushInterval: c.FlushInterval,
		QueueCapacity: c.QueueCapacity,
	}
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
