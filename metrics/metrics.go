// Package metrics provides the lock-free instruments that application
// goroutines update at arbitrary rates. Every mutation is a single atomic
// operation, so updating a metric never blocks and never allocates.
//
// Two instruments exist and the set is closed:
//
//   - Counter accumulates a signed sum that is reset to zero each time it is
//     read.
//   - Gauge remembers the last value written together with a flag telling
//     whether it has been reported since.
//
// Both satisfy Metric, the read-and-reset contract used by the logger's
// background worker:
//
//	requests := metrics.NewCounter("HTTP requests RPS")
//	cpu := metrics.NewGauge("CPU")
//
//	// In request handlers:
//	requests.Inc()
//	cpu.Set(0.85)
//
//	// In the collector:
//	if requests.HasValue() {
//	    v := requests.GetAndReset()
//	    fmt.Println(requests.Name(), v)
//	}
package metrics

import (
	"math"
	"sync/atomic"
)

// Metric is the uniform read/reset contract. It is sealed: Counter and
// Gauge are its only implementations.
type Metric interface {
	// Name returns the name given at construction.
	Name() string

	// HasValue reports whether the metric holds data not yet reported
	// since its last reset.
	HasValue() bool

	// GetAndReset returns the pending value and clears the pending state.
	GetAndReset() Value

	metric()
}

// KindOf returns the kind of value m produces.
func KindOf(m Metric) Kind {
	switch m.(type) {
	case *Counter:
		return KindInt
	case *Gauge:
		return KindFloat
	default:
		panic("metrics: unknown metric type")
	}
}

// Counter is a running signed sum.
type Counter struct {
	name string

	// sum accumulates increments since the last GetAndReset.
	sum atomic.Int64
}

// NewCounter returns a counter with a zero sum.
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

func (c *Counter) metric() {}

// Name returns the counter name.
func (c *Counter) Name() string { return c.name }

// Increment adds delta to the sum. delta may be negative.
func (c *Counter) Increment(delta int64) {
	c.sum.Add(delta)
}

// Inc adds one to the sum.
func (c *Counter) Inc() {
	c.sum.Add(1)
}

// HasValue reports whether the sum is nonzero. Increments that cancel out
// exactly are indistinguishable from no activity.
func (c *Counter) HasValue() bool {
	return c.sum.Load() != 0
}

// GetAndReset swaps the sum with zero and returns the previous sum. Every
// increment is reported by exactly one call.
func (c *Counter) GetAndReset() Value {
	return IntValue(c.sum.Swap(0))
}

// Gauge holds the last value written.
type Gauge struct {
	name string

	// bits is the IEEE-754 representation of the last value.
	bits atomic.Uint64

	// pending is set by Set and cleared by GetAndReset.
	pending atomic.Bool
}

// NewGauge returns a gauge with no pending value.
func NewGauge(name string) *Gauge {
	return &Gauge{name: name}
}

func (g *Gauge) metric() {}

// Name returns the gauge name.
func (g *Gauge) Name() string { return g.name }

// Set stores v and marks the gauge as pending. The value and the flag are
// two separate stores; a concurrent GetAndReset may pair the new value with
// a cleared flag or the old value with a set one.
func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
	g.pending.Store(true)
}

// HasValue reports whether Set has been called since the last reset. A
// gauge set to zero still has a value.
func (g *Gauge) HasValue() bool {
	return g.pending.Load()
}

// GetAndReset returns the last value and clears the pending flag. The value
// itself is retained.
func (g *Gauge) GetAndReset() Value {
	v := math.Float64frombits(g.bits.Load())
	g.pending.Store(false)
	return FloatValue(v)
}
