// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for
// cooperative thread groups and for independent parallel work.
//
// A Pool is created once and reused across many operations, so running a
// thread group does not pay for spawning BlockSize goroutines each time.
// Launch hands exactly one worker to every thread of a group, which is what
// barrier-synchronized code needs; ParallelFor and ParallelForAtomic split
// independent work, such as many separate groups, across the workers.
//
// Usage:
//
//	pool := workerpool.New(256)
//	defer pool.Close()
//
//	// Reuse the pool for every group of 256 threads
//	for _, segment := range segments {
//	    err := group.RunWith(ctx, pool, layout, func(t group.Thread) error {
//	        return scanSegment(t, segment)
//	    })
//	}
package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	// ErrClosed is returned by Launch on a closed pool.
	ErrClosed = errors.New("workerpool: pool is closed")

	// ErrTooFewWorkers is returned by Launch when the pool cannot run all
	// requested executions at the same time.
	ErrTooFewWorkers = errors.New("workerpool: not enough workers")
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool

	// launchMu keeps two Launch calls from splitting the workers between
	// them, which could leave both groups short of threads.
	launchMu sync.Mutex
}

// workItem represents a single parallel operation to execute.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	// Spawn persistent workers
	for range numWorkers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.launchMu.Lock()
	defer p.launchMu.Unlock()

	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Launch runs fn(i) for every i in [0, n), each on its own worker, and blocks
// until all of them return. All n calls are live at the same time, so fn may
// block waiting for its siblings.
//
// Launch must not be called from inside work running on the same pool.
func (p *Pool) Launch(n int, fn func(i int)) error {
	if n <= 0 {
		return nil
	}
	if n > p.numWorkers {
		return fmt.Errorf("%w: need %d, have %d", ErrTooFewWorkers, n, p.numWorkers)
	}

	p.launchMu.Lock()
	defer p.launchMu.Unlock()

	if p.closed.Load() {
		return ErrClosed
	}

	// Each item holds its worker until the whole group is done, so no worker
	// can take a second item of the same launch.
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		p.workC <- workItem{
			fn: func() {
				fn(i)
			},
			barrier: &wg,
		}
	}

	wg.Wait()
	return nil
}

// ParallelFor splits [0, n) into one contiguous range per worker and calls
// fn(start, end) for each range. It returns once every range is done.
//
// Use it when items cost about the same, so that a static split balances;
// ParallelForAtomic hands out single items instead.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	if workers == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	per := (n + workers - 1) / workers
	ranges := (n + per - 1) / per

	var wg sync.WaitGroup
	wg.Add(ranges)
	for start := 0; start < n; start += per {
		end := min(start+per, n)
		p.workC <- workItem{
			fn:      func() { fn(start, end) },
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelForAtomic executes fn for each index in [0, n) using atomic work
// stealing. This provides better load balancing when work per item varies.
// Blocks until all work completes.
//
// fn receives the index to process.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() {
		// Fallback to sequential if pool is closed
		for i := range n {
			fn(i)
		}
		return
	}

	workers := min(p.numWorkers, n)

	if workers == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var nextIdx atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					idx := int(nextIdx.Add(1)) - 1
					if idx >= n {
						return
					}
					fn(idx)
				}
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}
