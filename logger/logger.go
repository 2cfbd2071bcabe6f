// Package logger periodically drains registered metrics into an append-only
// text log.
//
// A Logger owns one background goroutine. Once per flush interval it scans
// the registered metrics, takes every pending value with an atomic
// read-and-reset, pushes the resulting snapshots through a bounded lock-free
// queue and writes them out as one line. Application goroutines never
// interact with the queue or the file: they only touch their metrics.
//
// Usage:
//
//	l, err := logger.New(logger.Config{Path: "metrics.log"})
//	if err != nil {
//	    return err
//	}
//	defer l.Stop()
//
//	requests := metrics.NewCounter("HTTP requests RPS")
//	l.RegisterMetric(requests)
//
//	requests.Inc()
//
// Failures inside the worker never reach the caller. They are reported
// through Status and the optional flush hook, and logged with slog.
package logger

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/dankomiocevic/tally/metrics"
	"github.com/dankomiocevic/tally/ring"
)

// Snapshot is one metric reading taken by the worker.
type Snapshot struct {
	Name      string
	Value     metrics.Value
	Timestamp time.Time
}

// Logger collects registered metrics and appends them to a file.
type Logger struct {
	id  string
	cfg Config

	fs   afero.Fs
	log  *slog.Logger
	now  func() time.Time
	hook func(FlushResult)

	// registry is a copy-on-write []metrics.Metric. Writers serialise on
	// registryMu; the worker only loads it.
	registry   atomic.Value
	registryMu sync.Mutex

	queue *ring.Queue[Snapshot]
	batch []Snapshot
	line  []byte

	state atomic.Int32
	stop  chan struct{}
	done  chan struct{}

	stats stats
}

// New builds a Logger and starts its worker. The only error is an invalid
// queue capacity; problems with the output file are reported through
// Status once the worker runs.
func New(cfg Config, opts ...Option) (*Logger, error) {
	cfg = cfg.withDefaults()

	queue, err := ring.New[Snapshot](cfg.QueueCapacity)
	if err != nil {
		return nil, fmt.Errorf("create snapshot queue: %w", err)
	}

	l := &Logger{
		id:    uuid.NewString(),
		cfg:   cfg,
		fs:    afero.NewOsFs(),
		log:   slog.Default(),
		now:   time.Now,
		queue: queue,
		batch: make([]Snapshot, 0, 64),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	l.log = l.log.With(slog.String("logger_id", l.id))
	l.registry.Store([]metrics.Metric(nil))
	l.state.Store(int32(StateRunning))

	go l.run()
	return l, nil
}

// ID returns the unique identifier of this logger instance.
func (l *Logger) ID() string {
	return l.id
}

// RegisterMetric adds m to the set scanned on every cycle. It may be called
// at any time; a metric registered during a cycle is first collected on the
// next one. m stays owned by the caller as well.
func (l *Logger) RegisterMetric(m metrics.Metric) {
	if m == nil {
		return
	}

	l.registryMu.Lock()
	defer l.registryMu.Unlock()

	old := l.registry.Load().([]metrics.Metric)
	next := make([]metrics.Metric, len(old)+1)
	copy(next, old)
	next[len(old)] = m
	l.registry.Store(next)
}

// Stop signals the worker, waits for its final collect-and-write pass and
// returns. Only the first call does the work; later or concurrent calls
// return once the worker is gone.
func (l *Logger) Stop() {
	if l.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		close(l.stop)
		<-l.done
		l.state.Store(int32(StateStopped))
		l.log.Debug("logger: stopped")
		return
	}
	<-l.done
}

// Close stops the logger. It always returns nil.
func (l *Logger) Close() error {
	l.Stop()
	return nil
}

// Status returns a snapshot of the worker's counters and last outcome.
func (l *Logger) Status() Status {
	l.stats.mu.Lock()
	lastFlush, lastErr := l.stats.lastFlush, l.stats.lastErr
	l.stats.mu.Unlock()

	return Status{
		ID:        l.id,
		State:     State(l.state.Load()),
		Cycles:    l.stats.cycles.Load(),
		Lines:     l.stats.lines.Load(),
		Written:   l.stats.written.Load(),
		Dropped:   l.stats.dropped.Load(),
		Failures:  l.stats.failures.Load(),
		LastFlush: lastFlush,
		LastErr:   lastErr,
	}
}

func (l *Logger) run() {
	defer close(l.done)

	f, err := openSink(l.fs, l.cfg.Path)
	if err != nil {
		err = PermanentError{Op: "open", Err: err}
		l.log.Error("logger: failed to open output file",
			slog.String("path", l.cfg.Path),
			slog.Any("error", err))
		l.stats.fail(err)
		l.state.CompareAndSwap(int32(StateRunning), int32(StateStopped))
		l.notify(FlushResult{Time: l.now(), Err: err})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.log.Warn("logger: failed to close output file",
				slog.String("path", l.cfg.Path),
				slog.Any("error", err))
		}
	}()

	ticker := time.NewTicker(l.cfg.FlushInterval)
	defer ticker.Stop()

	l.log.Info("logger: started",
		slog.String("path", l.cfg.Path),
		slog.Duration("flush_interval", l.cfg.FlushInterval),
		slog.Int("queue_capacity", l.queue.Cap()))

	for {
		l.cycle(f)

		select {
		case <-l.stop:
			l.cycle(f)
			return
		case <-ticker.C:
		}
	}
}

// cycle runs one collect, drain and write pass. A panic is turned into a
// TransientError so the worker survives it.
func (l *Logger) cycle(f afero.File) {
	var r FlushResult
	wrote := false

	defer func() {
		if p := recover(); p != nil {
			r.Err = TransientError{Op: "cycle", Err: fmt.Errorf("panic: %v", p)}
			wrote = false
		}
		if r.Err != nil {
			l.log.Error("logger: flush cycle failed", slog.Any("error", r.Err))
		}
		l.stats.record(r, wrote)
		l.notify(r)
	}()

	r.Time = l.now()
	r.Dropped = l.collect(r.Time)

	batch := l.drain()
	if len(batch) == 0 {
		return
	}

	l.line = appendLine(l.line[:0], batch)
	if err := writeLine(f, l.line); err != nil {
		r.Err = err
		return
	}
	r.Written = len(batch)
	wrote = true
}

// collect enqueues a snapshot for every pending metric and returns how many
// were dropped because the queue was full.
func (l *Logger) collect(now time.Time) int {
	dropped := 0
	for _, m := range l.registry.Load().([]metrics.Metric) {
		if !m.HasValue() {
			continue
		}
		s := Snapshot{Name: m.Name(), Value: m.GetAndReset(), Timestamp: now}
		if !l.queue.Enqueue(s) {
			dropped++
		}
	}
	if dropped > 0 {
		l.log.Warn("logger: snapshot queue full, dropping snapshots",
			slog.Int("dropped", dropped))
	}
	return dropped
}

// drain empties the queue into the reusable batch.
func (l *Logger) drain() []Snapshot {
	l.batch = l.batch[:0]
	for {
		s, ok := l.queue.Dequeue()
		if !ok {
			return l.batch
		}
		l.batch = append(l.batch, s)
	}
}

func (l *Logger) notify(r FlushResult) {
	if l.hook == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			l.log.Error("logger: flush hook panicked", slog.Any("panic", p))
		}
	}()
	l.hook(r)
}
