// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package group

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrBrokenBarrier is returned by Barrier.Wait once the barrier is broken.
	ErrBrokenBarrier = errors.New("group: broken barrier")

	// ErrDivergent reports a thread that left the group while other threads
	// were still expected to meet it at a barrier.
	ErrDivergent = errors.New("group: divergent barrier participation")
)

// Barrier is a reusable rendezvous point for a fixed number of parties.
//
// Each generation completes when every party that has not departed calls
// Wait. A barrier can be broken, after which every current and future Wait
// returns the breaking error.
type Barrier struct {
	mu         sync.Mutex
	cond       sync.Cond
	parties    int
	arrived    int
	departed   int
	generation uint64
	broken     error
}

// NewBarrier creates a barrier for the given number of parties.
func NewBarrier(parties int) *Barrier {
	b := &Barrier{parties: parties}
	b.cond.L = &b.mu
	return b
}

// Parties returns the number of parties the barrier was created for.
func (b *Barrier) Parties() int {
	return b.parties
}

// Wait blocks until all parties have called Wait for the current generation.
func (b *Barrier) Wait() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.broken != nil {
		return b.broken
	}

	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()
		return nil
	}
	if b.arrived+b.departed >= b.parties {
		// Someone already left and will never arrive.
		b.breakLocked(ErrDivergent)
		return b.broken
	}

	gen := b.generation
	for gen == b.generation && b.broken == nil {
		b.cond.Wait()
	}
	if gen == b.generation {
		return b.broken
	}
	return nil
}

// Depart records that one party will not call Wait again. If parties are
// already waiting for it, the barrier breaks with ErrDivergent.
func (b *Barrier) Depart() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.departed++
	if b.arrived > 0 && b.broken == nil {
		b.breakLocked(ErrDivergent)
	}
}

// Break breaks the barrier, waking all waiters. The first cause wins.
func (b *Barrier) Break(cause error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.breakLocked(cause)
}

func (b *Barrier) breakLocked(cause error) {
	if b.broken != nil {
		return
	}
	switch {
	case cause == nil:
		b.broken = ErrBrokenBarrier
	case errors.Is(cause, ErrBrokenBarrier):
		b.broken = cause
	default:
		b.broken = fmt.Errorf("%w: %w", ErrBrokenBarrier, cause)
	}
	b.cond.Broadcast()
}
