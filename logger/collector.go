package logger

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "tally"
	subsystem = "logger"
)

// Collector exposes a Logger's pipeline health as Prometheus metrics. It
// does not serve them; register it with the host application's registry.
type Collector struct {
	l *Logger

	cycles   *prometheus.Desc
	lines    *prometheus.Desc
	written  *prometheus.Desc
	dropped  *prometheus.Desc
	failures *prometheus.Desc
	depth    *prometheus.Desc
	state    *prometheus.Desc
}

// NewCollector returns a collector reading l's status on every scrape.
func NewCollector(l *Logger) *Collector {
	labels := prometheus.Labels{"logger_id": l.ID()}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, nil, labels)
	}

	return &Collector{
		l:        l,
		cycles:   desc("flush_cycles_total", "Total number of collection cycles run by the worker"),
		lines:    desc("lines_written_total", "Total number of lines appended to the output file"),
		written:  desc("snapshots_written_total", "Total number of metric snapshots written"),
		dropped:  desc("snapshots_dropped_total", "Total number of snapshots dropped because the queue was full"),
		failures: desc("flush_failures_total", "Total number of failed cycles, including a failure to open the output file"),
		depth:    desc("queue_depth", "Snapshots currently waiting in the queue"),
		state:    desc("state", "Worker state (0=running, 1=stopping, 2=stopped)"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cycles
	ch <- c.lines
	ch <- c.written
	ch <- c.dropped
	ch <- c.failures
	ch <- c.depth
	ch <- c.state
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.l.Status()

	ch <- prometheus.MustNewConstMetric(c.cycles, prometheus.CounterValue, float64(s.Cycles))
	ch <- prometheus.MustNewConstMetric(c.lines, prometheus.CounterValue, float64(s.Lines))
	ch <- prometheus.MustNewConstMetric(c.written, prometheus.CounterValue, float64(s.Written))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Dropped))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.Failures))
	ch <- prometheus.MustNewConstMetric(c.depth, prometheus.GaugeValue, float64(c.l.queue.Len()))
	ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, float64(s.State))
}
