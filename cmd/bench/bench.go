// Package bench contains the command that stresses the ring queue with
// concurrent producers and consumers.
package bench

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dankomiocevic/tally/ring"

	"github.com/spf13/cobra"
)

func NewBenchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the ring queue",
		Long:  "Push items through the ring queue from many goroutines and check none are lost or duplicated.",
		RunE:  run,
		Args:  cobra.NoArgs,
	}

	flags := cmd.Flags()
	flags.Int("producers", 4, "concurrent producer goroutines")
	flags.Int("consumers", 4, "concurrent consumer goroutines")
	flags.Int("items", 100000, "items pushed by each producer")
	flags.Uint64("capacity", 1024, "the queue capacity, a power of two")

	return cmd
}

type result struct {
	transferred int
	lost        int
	duplicated  int
	elapsed     time.Duration
}

func run(cmd *cobra.Command, _ []string) error {
	producers, _ := cmd.Flags().GetInt("producers")
	consumers, _ := cmd.Flags().GetInt("consumers")
	items, _ := cmd.Flags().GetInt("items")
	capacity, _ := cmd.Flags().GetUint64("capacity")

	if producers < 1 || consumers < 1 || items < 1 {
		return fmt.Errorf("producers, consumers and items must be positive")
	}

	cmd.Printf("Starting %d producers and %d consumers on a queue of %d..\n", producers, consumers, capacity)
	r, err := transfer(capacity, producers, consumers, items)
	if err != nil {
		return err
	}

	rate := float64(r.transferred) / r.elapsed.Seconds()
	cmd.Printf("Transferred %d items in %f seconds, %f ops/s, lost %d, duplicated %d\n",
		r.transferred, r.elapsed.Seconds(), rate, r.lost, r.duplicated)
	return nil
}

func transfer(capacity uint64, producers, consumers, items int) (result, error) {
	q, err := ring.New[int](capacity)
	if err != nil {
		return result{}, err
	}

	total := producers * items
	seen := make([]atomic.Int32, total)
	var received atomic.Int64

	start := time.Now()
	var pwg, cwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(base int) {
			defer pwg.Done()
			for i := 0; i < items; i++ {
				for !q.Enqueue(base + i) {
					runtime.Gosched()
				}
			}
		}(p * items)
	}

	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for received.Load() < int64(total) {
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

	pwg.Wait()
	cwg.Wait()

	r := result{elapsed: time.Since(start)}
	for i := range seen {
		switch n := int(seen[i].Load()); {
		case n == 0:
			r.lost++
		case n > 1:
			r.duplicated += n - 1
			r.transferred++
		default:
			r.transferred++
		}
	}
	return r, nil
}
