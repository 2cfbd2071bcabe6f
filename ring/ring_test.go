package ring

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, c := range []uint64{0, 1, 3, 6, 1000} {
		q, err := New[int](c)
		if !errors.Is(err, ErrCapacity) {
			t.Fatalf("capacity %d: expected ErrCapacity, got %v", c, err)
		}
		if q != nil {
			t.Fatalf("capacity %d: expected nil queue", c)
		}
	}

	for _, c := range []uint64{2, 4, 1024} {
		q, err := New[int](c)
		require.NoError(t, err)
		assert.True(t, q.Empty())
		assert.Equal(t, int(c), q.Cap())
	}
}

func TestEnqueueUntilFull(t *testing.T) {
	q, err := New[int](8)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		if !q.Enqueue(i) {
			t.Fatalf("enqueue %d failed on a queue with free slots", i)
		}
	}
	if q.Enqueue(8) {
		t.Fatal("enqueue succeeded on a full queue")
	}
	if q.Enqueue(9) {
		t.Fatal("enqueue succeeded on a full queue twice")
	}

	v, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 0, v)

	assert.True(t, q.Enqueue(8), "dequeue should free exactly one slot")
	assert.False(t, q.Enqueue(9))
}

func TestDequeueEmpty(t *testing.T) {
	q, err := New[int](2)
	require.NoError(t, err)

	_, ok := q.Dequeue()
	assert.False(t, ok)
	_, ok = q.Dequeue()
	assert.False(t, ok)
}

func TestFIFOOrder(t *testing.T) {
	q, err := New[string](4)
	require.NoError(t, err)

	for _, s := range []string{"a", "b", "c"} {
		require.True(t, q.Enqueue(s))
	}
	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := q.Dequeue()
	assert.False(t, ok)
}

func TestEmptyTracksCursors(t *testing.T) {
	q, err := New[int](4)
	require.NoError(t, err)

	assert.True(t, q.Empty())
	q.Enqueue(1)
	assert.False(t, q.Empty())
	q.Dequeue()
	assert.True(t, q.Empty())

	q.Enqueue(1)
	q.Enqueue(2)
	assert.Equal(t, 2, q.Len())
	q.Dequeue()
	assert.False(t, q.Empty())
	q.Dequeue()
	assert.True(t, q.Empty())
	assert.Equal(t, 0, q.Len())
}

func TestWrapAroundManyLaps(t *testing.T) {
	q, err := New[int](2)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		require.True(t, q.Enqueue(i))
		require.True(t, q.Enqueue(-i))
		require.False(t, q.Enqueue(0))

		v, ok := q.Dequeue()
		require.True(t, ok)
		require.Equal(t, i, v)
		v, ok = q.Dequeue()
		require.True(t, ok)
		require.Equal(t, -i, v)
	}
}

func TestDequeueReleasesValue(t *testing.T) {
	q, err := New[*int](2)
	require.NoError(t, err)

	n := 7
	q.Enqueue(&n)
	got, ok := q.Dequeue()
	require.True(t, ok)
	assert.Same(t, &n, got)

	for i := range q.slots {
		if q.slots[i].val != nil {
			t.Fatalf("slot %d still references a consumed value", i)
		}
	}
}

func TestNoSpuriousFailures(t *testing.T) {
	const perWorker = 256
	const workers = 4
	q, err := New[int](2048)
	require.NoError(t, err)

	var failures atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if !q.Enqueue(j) {
					failures.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, ok := q.Dequeue(); !ok {
					failures.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures.Load())
	assert.True(t, q.Empty())
}

func TestMPMCNoLossNoDuplication(t *testing.T) {
	const producers = 8
	const consumers = 8
	const perProducer = 10000
	const total = producers * perProducer

	q, err := New[int](1024)
	require.NoError(t, err)

	seen := make([]atomic.Int32, total)
	var received atomic.Int64
	var wg sync.WaitGroup

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				for !q.Enqueue(p*perProducer + i) {
					runtime.Gosched()
				}
			}
		}(p)
	}

	var consumerWg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		consumerWg.Add(1)
		go func() {
			defer consumerWg.Done()
			for received.Load() < total {
				v, ok := q.Dequeue()
				if !ok {
					runtime.Gosched()
					continue
				}
				seen[v].Add(1)
				received.Add(1)
			}
		}()
	}

	wg.Wait()

	done := make(chan struct{})
	go func() {
		consumerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("timeout waiting for consumers, received %d/%d", received.Load(), total)
	}

	assert.EqualValues(t, total, received.Load())
	for i := range seen {
		if n := seen[i].Load(); n != 1 {
			t.Fatalf("value %d dequeued %d times", i, n)
		}
	}
	assert.True(t, q.Empty())
}

func TestMixedContentionLeavesQueueUsable(t *testing.T) {
	const n = 256
	const workers = 4
	q, err := New[int](512)
	require.NoError(t, err)

	var enqueued, dequeued atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < n; j++ {
				if id%2 == 1 {
					if q.Enqueue(j) {
						enqueued.Add(1)
					}
				} else if _, ok := q.Dequeue(); ok {
					dequeued.Add(1)
				}
			}
		}(i)
	}
	wg.Wait()

	for {
		if _, ok := q.Dequeue(); !ok {
			break
		}
		dequeued.Add(1)
	}
	assert.Equal(t, enqueued.Load(), dequeued.Load())

	require.True(t, q.Enqueue(0))
	v, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 0, v)
}

func BenchmarkEnqueueDequeue(b *testing.B) {
	q, _ := New[int](1024)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if q.Enqueue(1) {
				q.Dequeue()
			}
		}
	})
}
