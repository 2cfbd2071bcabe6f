// Package workload drives a fixed set of demo metrics with random values so
// the logger has something to write when run from the command line.
package workload

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/dankomiocevic/tally/metrics"
)

// Demo holds the demo metrics.
type Demo struct {
	CPU      *metrics.Gauge
	Requests *metrics.Counter
	Memory   *metrics.Gauge
	Errors   *metrics.Counter
}

// NewDemo creates the demo metrics.
func NewDemo() *Demo {
	return &Demo{
		CPU:      metrics.NewGauge("CPU"),
		Requests: metrics.NewCounter("HTTP requests RPS"),
		Memory:   metrics.NewGauge("Memory Usage MB"),
		Errors:   metrics.NewCounter("Error Count"),
	}
}

// Metrics returns the demo metrics in registration order.
func (d *Demo) Metrics() []metrics.Metric {
	return []metrics.Metric{d.CPU, d.Requests, d.Memory, d.Errors}
}

// Run starts producers goroutines per metric and blocks until ctx is done
// and all of them have returned.
func (d *Demo) Run(ctx context.Context, producers int) {
	if producers < 1 {
		producers = 1
	}

	drivers := []func(){
		func() { d.CPU.Set(rand.Float64() * 4) },
		func() { d.Requests.Increment(rand.Int63n(100) + 1) },
		func() { d.Memory.Set(100 + rand.Float64()*900) },
		func() {
			// errors are rare
			if rand.Intn(10) == 0 {
				d.Errors.Inc()
			}
		},
	}

	var wg sync.WaitGroup
	for _, drive := range drivers {
		for i := 0; i < producers; i++ {
			wg.Add(1)
			go func(drive func()) {
				defer wg.Done()
				loop(ctx, drive)
			}(drive)
		}
	}
	wg.Wait()
}

func loop(ctx context.Context, drive func()) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			drive()
			timer.Reset(time.Duration(10+rand.Intn(90)) * time.Millisecond)
		}
	}
}
