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
	"fmt"
)

// Thread is the view one goroutine has of the group it runs in.
//
// Barrier, SubgroupBarrier and Exchange are collective: Barrier must be
// called by every thread of the group, the other two by every lane of the
// caller's sub-group. A broken group makes them panic with an error wrapping
// ErrBrokenBarrier, which Run recovers.
type Thread interface {
	// FlatID returns the thread's rank in [0, BlockSize).
	FlatID() int
	// SubgroupID returns FlatID / Width.
	SubgroupID() int
	// Lane returns FlatID % Width.
	Lane() int
	// Layout returns the shape of the group.
	Layout() Layout

	// Barrier blocks until every thread in the group has called it.
	Barrier()
	// SubgroupBarrier blocks until every lane in the sub-group has called it.
	SubgroupBarrier()
	// Exchange returns the value passed by the lane delta positions below
	// the caller. Lanes below delta get their own value back.
	// Values travel as any, so a non-pointer value is boxed (one allocation
	// per lane per call); warp.ShuffleUp restores the static type.
	Exchange(v any, delta int) any
}

// Group holds the state shared by the threads of one collective execution.
type Group struct {
	layout    Layout
	barrier   *Barrier
	subgroups []subgroup
}

// subgroup models the lane registers of one lock-step unit.
type subgroup struct {
	barrier *Barrier
	regs    []any
}

// NewGroup allocates the shared state for a group with the given layout.
// Most callers use Run instead.
func NewGroup(layout Layout) *Group {
	g := &Group{
		layout:    layout,
		barrier:   NewBarrier(layout.BlockSize),
		subgroups: make([]subgroup, layout.Subgroups()),
	}
	for i := range g.subgroups {
		n := layout.SubgroupSize(i)
		g.subgroups[i] = subgroup{
			barrier: NewBarrier(n),
			regs:    make([]any, n),
		}
	}
	return g
}

// Layout returns the group's shape.
func (g *Group) Layout() Layout {
	return g.layout
}

// Thread returns the view of the thread with the given flat rank.
func (g *Group) Thread(flat int) Thread {
	return &thread{g: g, flat: flat}
}

// Break breaks every barrier of the group so that no thread stays blocked.
func (g *Group) Break(cause error) {
	g.barrier.Break(cause)
	for i := range g.subgroups {
		g.subgroups[i].barrier.Break(cause)
	}
}

// Execute runs fn as the thread with the given flat rank. Panics are
// recovered and returned as errors; any failure breaks the group.
func (g *Group) Execute(flat int, fn func(Thread) error) (err error) {
	t := &thread{g: g, flat: flat}
	defer func() {
		if r := recover(); r != nil {
			err = panicError(flat, r)
		}
		if err != nil {
			g.Break(err)
			return
		}
		g.barrier.Depart()
		g.subgroups[t.SubgroupID()].barrier.Depart()
	}()
	return fn(t)
}

// brokenPanic carries a barrier error up the stack of a waiting thread.
type brokenPanic struct {
	err error
}

func panicError(flat int, r any) error {
	switch v := r.(type) {
	case brokenPanic:
		return v.err
	case error:
		return fmt.Errorf("group: thread %d: %w", flat, v)
	default:
		return fmt.Errorf("group: thread %d panicked: %v", flat, v)
	}
}

type thread struct {
	g    *Group
	flat int
}

func (t *thread) FlatID() int     { return t.flat }
func (t *thread) SubgroupID() int { return t.g.layout.SubgroupID(t.flat) }
func (t *thread) Lane() int       { return t.g.layout.Lane(t.flat) }
func (t *thread) Layout() Layout  { return t.g.layout }

func (t *thread) Barrier() {
	if err := t.g.barrier.Wait(); err != nil {
		panic(brokenPanic{err})
	}
}

func (t *thread) SubgroupBarrier() {
	if err := t.g.subgroups[t.SubgroupID()].barrier.Wait(); err != nil {
		panic(brokenPanic{err})
	}
}

func (t *thread) Exchange(v any, delta int) any {
	sg := &t.g.subgroups[t.SubgroupID()]
	lane := t.Lane()

	sg.regs[lane] = v
	t.SubgroupBarrier()
	r := v
	if delta > 0 && lane >= delta {
		r = sg.regs[lane-delta]
	}
	// Nobody may overwrite a register before every lane has read it.
	t.SubgroupBarrier()
	return r
}
