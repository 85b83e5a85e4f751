// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ajroetker/go-blockscan/hwy/contrib/group"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForRanges(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	// 10 items over 4 workers: ranges of 3, the last one short.
	var mu sync.Mutex
	var got [][2]int
	pool.ParallelFor(10, func(start, end int) {
		mu.Lock()
		got = append(got, [2]int{start, end})
		mu.Unlock()
	})

	want := map[[2]int]bool{{0, 3}: true, {3, 6}: true, {6, 9}: true, {9, 10}: true}
	if len(got) != len(want) {
		t.Fatalf("got %d ranges %v, want %d", len(got), got, len(want))
	}
	for _, r := range got {
		if !want[r] {
			t.Errorf("unexpected range %v", r)
		}
	}
}

func TestParallelForAtomic(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	pool.ParallelForAtomic(n, func(i int) {
		results[i] = i * 2
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	// Test with n smaller than workers
	n := 3
	var count atomic.Int32

	pool.ParallelFor(n, func(start, end int) {
		count.Add(int32(end - start))
	})

	if count.Load() != int32(n) {
		t.Errorf("count = %d, want %d", count.Load(), n)
	}
}

func TestParallelForZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var called bool
	pool.ParallelFor(0, func(start, end int) {
		called = true
	})

	if called {
		t.Error("ParallelFor with n=0 should not call fn")
	}
}

func TestLaunchRunsAllConcurrently(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	// Every call waits for all others; this only finishes if all 8 are live.
	var wg sync.WaitGroup
	wg.Add(8)
	var count atomic.Int32
	err := pool.Launch(8, func(i int) {
		wg.Done()
		wg.Wait()
		count.Add(1)
	})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if count.Load() != 8 {
		t.Errorf("count = %d, want 8", count.Load())
	}
}

func TestLaunchErrors(t *testing.T) {
	pool := New(2)

	if err := pool.Launch(3, func(int) {}); !errors.Is(err, ErrTooFewWorkers) {
		t.Errorf("Launch(3) on 2 workers: got %v, want ErrTooFewWorkers", err)
	}
	if err := pool.Launch(0, func(int) { t.Error("fn called for n=0") }); err != nil {
		t.Errorf("Launch(0): %v", err)
	}

	pool.Close()
	if err := pool.Launch(1, func(int) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Launch on closed pool: got %v, want ErrClosed", err)
	}
}

func TestLaunchHostsGroup(t *testing.T) {
	pool := New(16)
	defer pool.Close()

	layout, err := group.NewLayout(16, 4)
	if err != nil {
		t.Fatal(err)
	}

	for round := range 3 {
		shared := make([]int, layout.BlockSize)
		got := make([]int, layout.BlockSize)
		err := group.RunWith(context.Background(), pool, layout, func(th group.Thread) error {
			shared[th.FlatID()] = th.FlatID() + round
			th.Barrier()
			got[th.FlatID()] = shared[layout.BlockSize-1-th.FlatID()]
			return nil
		})
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		for i, v := range got {
			if want := layout.BlockSize - 1 - i + round; v != want {
				t.Errorf("round %d: got[%d] = %d, want %d", round, i, v, want)
			}
		}
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close() // Should not panic
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()

	n := 100
	results := make([]int, n)

	// Should still work (sequential fallback)
	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func BenchmarkParallelFor(b *testing.B) {
	pool := New(0) // Use GOMAXPROCS
	defer pool.Close()

	n := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.ParallelFor(n, func(start, end int) {
			// Simulate work
			for j := start; j < end; j++ {
				_ = j * j
			}
		})
	}
}

func BenchmarkLaunchGroup(b *testing.B) {
	pool := New(64)
	defer pool.Close()

	layout, err := group.NewLayout(64, 8)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = group.RunWith(context.Background(), pool, layout, func(th group.Thread) error {
			th.Barrier()
			return nil
		})
	}
}
