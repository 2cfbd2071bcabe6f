package logger

import (
	"sync"
	"sync/atomic"
	"time"
)

// State is the lifecycle stage of a Logger.
type State int32

const (
	StateRunning State = iota
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// FlushResult is the outcome of one collection cycle.
type FlushResult struct {
	// Time is when the cycle collected its snapshots.
	Time time.Time

	// Written is the number of snapshots written to the sink.
	Written int

	// Dropped is the number of snapshots rejected by a full queue.
	Dropped int

	// Err is nil, a TransientError or a PermanentError.
	Err error
}

// Status is a point-in-time view of a Logger's health.
type Status struct {
	ID        string
	State     State
	Cycles    uint64
	Lines     uint64
	Written   uint64
	Dropped   uint64
	Failures  uint64
	LastFlush time.Time
	LastErr   error
}

// Healthy reports whether the worker is running and its last cycle
// succeeded.
func (s Status) Healthy() bool {
	return s.State == StateRunning && s.LastErr == nil
}

// stats is written by the worker only; counters are atomic so Status and
// the prometheus collector can read them from any goroutine.
type stats struct {
	cycles   atomic.Uint64
	lines    atomic.Uint64
	written  atomic.Uint64
	dropped  atomic.Uint64
	failures atomic.Uint64

	mu        sync.Mutex
	lastFlush time.Time
	lastErr   error
}

func (s *stats) record(r FlushResult, wroteLine bool) {
	s.cycles.Add(1)
	s.written.Add(uint64(r.Written))
	s.dropped.Add(uint64(r.Dropped))
	if wroteLine {
		s.lines.Add(1)
	}
	if r.Err != nil {
		s.failures.Add(1)
	}

	s.mu.Lock()
	s.lastErr = r.Err
	if wroteLine {
		s.lastFlush = r.Time
	}
	s.mu.Unlock()
}

func (s *stats) fail(err error) {
	s.failures.Add(1)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
