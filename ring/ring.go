// Package ring provides a bounded, lock-free, multi-producer/multi-consumer
// queue.
//
// Every slot carries a generation number that tells producers and consumers
// whether the slot is free for the current tail, filled for the current head,
// or still waiting to be consumed from the previous lap. No operation ever
// blocks: a full queue rejects Enqueue and an empty queue rejects Dequeue.
package ring

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrCapacity is returned by New when the capacity is not a power of two
// greater than one.
var ErrCapacity = errors.New("ring: capacity must be a power of two >= 2")

const cacheLine = 64

type slot[T any] struct {
	gen atomic.Uint64
	val T
}

// Queue is a fixed-capacity MPMC queue. The zero value is not usable; build
// one with New.
type Queue[T any] struct {
	head  atomic.Uint64
	_     [cacheLine - 8]byte
	tail  atomic.Uint64
	_     [cacheLine - 8]byte
	mask  uint64
	slots []slot[T]
}

// New allocates a queue holding exactly capacity elements.
func New[T any](capacity uint64) (*Queue[T], error) {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrCapacity, capacity)
	}

	q := &Queue[T]{
		mask:  capacity - 1,
		slots: make([]slot[T], capacity),
	}
	for i := range q.slots {
		q.slots[i].gen.Store(uint64(i))
	}
	return q, nil
}

// Enqueue inserts v and reports whether there was room for it.
func (q *Queue[T]) Enqueue(v T) bool {
	tail := q.tail.Load()
	for {
		s := &q.slots[tail&q.mask]
		dif := int64(s.gen.Load() - tail)

		switch {
		case dif == 0:
			if q.tail.CompareAndSwap(tail, tail+1) {
				s.val = v
				s.gen.Store(tail + 1)
				return true
			}
			tail = q.tail.Load()
		case dif < 0:
			// slot still holds the previous lap's value
			return false
		default:
			tail = q.tail.Load()
		}
	}
}

// Dequeue removes the oldest element. ok is false when the queue is empty.
func (q *Queue[T]) Dequeue() (v T, ok bool) {
	head := q.head.Load()
	for {
		s := &q.slots[head&q.mask]
		dif := int64(s.gen.Load() - (head + 1))

		switch {
		case dif == 0:
			if q.head.CompareAndSwap(head, head+1) {
				v = s.val
				var zero T
				s.val = zero
				s.gen.Store(head + q.mask + 1)
				return v, true
			}
			head = q.head.Load()
		case dif < 0:
			return v, false
		default:
			head = q.head.Load()
		}
	}
}

// Empty reports whether head and tail met at the time of the call. Under
// concurrent use the answer may be stale by the time it is returned.
func (q *Queue[T]) Empty() bool {
	return q.head.Load() == q.tail.Load()
}

// Len returns an approximate number of queued elements.
func (q *Queue[T]) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail < head {
		return 0
	}
	return int(tail - head)
}

// Cap returns the fixed capacity.
func (q *Queue[T]) Cap() int {
	return len(q.slots)
}
