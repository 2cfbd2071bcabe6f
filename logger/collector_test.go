package logger

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/dankomiocevic/tally/metrics"
)

func TestCollectorExposesPipelineHealth(t *testing.T) {
	rec := newHookRecorder()
	l := newTestLogger(t, afero.NewMemMapFs(), Config{FlushInterval: time.Hour}, WithFlushHook(rec.hook))
	rec.next(t)

	c := metrics.NewCounter("requests")
	l.RegisterMetric(c)
	c.Increment(5)
	l.Stop()

	collector := NewCollector(l)
	require.Equal(t, 7, testutil.CollectAndCount(collector))

	expected := fmt.Sprintf(`
# HELP tally_logger_snapshots_written_total Total number of metric snapshots written
# TYPE tally_logger_snapshots_written_total counter
tally_logger_snapshots_written_total{logger_id=%q} 1
# HELP tally_logger_state Worker state (0=running, 1=stopping, 2=stopped)
# TYPE tally_logger_state gauge
tally_logger_state{logger_id=%q} 2
`, l.ID(), l.ID())

	err := testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"tally_logger_snapshots_written_total", "tally_logger_state")
	require.NoError(t, err)
}

func TestCollectorRegisters(t *testing.T) {
	l := newTestLogger(t, afero.NewMemMapFs(), Config{FlushInterval: time.Hour})

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(l)))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 7)
}
