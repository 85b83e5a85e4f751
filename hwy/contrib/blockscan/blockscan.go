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

package blockscan

import (
	"fmt"

	"github.com/ajroetker/go-blockscan/hwy"
	"github.com/ajroetker/go-blockscan/hwy/contrib/group"
	"github.com/ajroetker/go-blockscan/hwy/contrib/warp"
)

// BlockScan performs group-wide scans over values of type T.
//
// A BlockScan is safe to share between the threads of a group and, when every
// group passes its own Storage, between groups.
type BlockScan[T any] struct {
	layout  Layout
	storage *Storage[T]
}

// New builds a BlockScan for the given configuration.
func New[T any](cfg Config) (*BlockScan[T], error) {
	width := cfg.Width
	if width == 0 {
		width = group.DeriveWidth(cfg.BlockSize, hwy.NativeLanes[T]())
	}
	l, err := NewLayout(group.Layout{BlockSize: cfg.BlockSize, Width: width}, cfg.Banks, cfg.DisablePadding)
	if err != nil {
		return nil, err
	}
	return &BlockScan[T]{
		layout:  l,
		storage: NewStorage[T](l),
	}, nil
}

// Layout returns the staging layout.
func (b *BlockScan[T]) Layout() Layout {
	return b.layout
}

// GroupLayout returns the group shape every calling thread must run in.
func (b *BlockScan[T]) GroupLayout() group.Layout {
	return b.layout.Group
}

// NewStorage allocates a Storage sized for this BlockScan.
func (b *BlockScan[T]) NewStorage() *Storage[T] {
	return NewStorage[T](b.layout)
}

// CheckStorage reports whether s can be used with this BlockScan.
func (b *BlockScan[T]) CheckStorage(s *Storage[T]) error {
	if s == nil {
		return nil
	}
	if s.Len() != b.layout.StorageSize() {
		return fmt.Errorf("%w: have %d slots, need %d", ErrStorageSize, s.Len(), b.layout.StorageSize())
	}
	return nil
}

// InclusiveScan returns op(v_0, ..., v_flat) where v_i is the input of
// thread i.
func (b *BlockScan[T]) InclusiveScan(t group.Thread, s *Storage[T], input T, op func(a, b T) T) T {
	s = b.prepare(t, s, op)
	b.scanThreads(t, s, input, op)
	out := s.threads[b.layout.Index(t.FlatID())]
	t.Barrier()
	return out
}

// InclusiveScanReduce is InclusiveScan that also returns the reduction of
// all inputs to every thread.
func (b *BlockScan[T]) InclusiveScanReduce(t group.Thread, s *Storage[T], input T, op func(a, b T) T) (output, reduction T) {
	s = b.prepare(t, s, op)
	b.scanThreads(t, s, input, op)
	output = s.threads[b.layout.Index(t.FlatID())]
	reduction = b.reduction(s)
	t.Barrier()
	return output, reduction
}

// InclusiveScanPrefix is InclusiveScan with every result prefixed by the
// value cb returns for the group total.
func (b *BlockScan[T]) InclusiveScanPrefix(t group.Thread, s *Storage[T], input T, cb PrefixCallback[T], op func(a, b T) T) T {
	s = b.prepare(t, s, op)
	checkCallback(cb)
	b.scanThreads(t, s, input, op)
	out := s.threads[b.layout.Index(t.FlatID())]
	prefix := b.groupPrefix(t, s, b.reduction(s), cb)
	t.Barrier()
	return op(prefix, out)
}

// ExclusiveScan returns op(init, v_0, ..., v_{flat-1}); thread 0 gets init.
func (b *BlockScan[T]) ExclusiveScan(t group.Thread, s *Storage[T], input, init T, op func(a, b T) T) T {
	s = b.prepare(t, s, op)
	b.scanThreads(t, s, input, op)
	out := b.seed(t, s, init, op)
	t.Barrier()
	return out
}

// ExclusiveScanReduce is ExclusiveScan that also returns the reduction of
// all inputs, without init, to every thread.
func (b *BlockScan[T]) ExclusiveScanReduce(t group.Thread, s *Storage[T], input, init T, op func(a, b T) T) (output, reduction T) {
	s = b.prepare(t, s, op)
	b.scanThreads(t, s, input, op)
	output = b.seed(t, s, init, op)
	reduction = b.reduction(s)
	t.Barrier()
	return output, reduction
}

// ExclusiveScanPrefix is ExclusiveScan where the value cb returns for the
// group total takes the place of init.
func (b *BlockScan[T]) ExclusiveScanPrefix(t group.Thread, s *Storage[T], input T, cb PrefixCallback[T], op func(a, b T) T) T {
	s = b.prepare(t, s, op)
	checkCallback(cb)
	b.scanThreads(t, s, input, op)
	prefix := b.groupPrefix(t, s, b.reduction(s), cb)
	out := b.seed(t, s, prefix, op)
	t.Barrier()
	return out
}

// InclusiveScanItems scans len(input) items per thread. Items are ordered by
// thread, then by position: output[i] of thread t is the scan up to item i of
// thread t. input and output may be the same slice.
func (b *BlockScan[T]) InclusiveScanItems(t group.Thread, s *Storage[T], input, output []T, op func(a, b T) T) {
	s = b.prepare(t, s, op)
	checkItems(input, output)
	pred, ok := b.scanItems(t, s, input, op)
	inclusiveItems(input, output, pred, ok, op)
	t.Barrier()
}

// InclusiveScanItemsReduce is InclusiveScanItems that also returns the
// reduction of all items of all threads.
func (b *BlockScan[T]) InclusiveScanItemsReduce(t group.Thread, s *Storage[T], input, output []T, op func(a, b T) T) T {
	s = b.prepare(t, s, op)
	checkItems(input, output)
	pred, ok := b.scanItems(t, s, input, op)
	reduction := b.reduction(s)
	inclusiveItems(input, output, pred, ok, op)
	t.Barrier()
	return reduction
}

// InclusiveScanItemsPrefix is InclusiveScanItems with every item prefixed by
// the value cb returns for the group total.
func (b *BlockScan[T]) InclusiveScanItemsPrefix(t group.Thread, s *Storage[T], input, output []T, cb PrefixCallback[T], op func(a, b T) T) {
	s = b.prepare(t, s, op)
	checkItems(input, output)
	checkCallback(cb)
	pred, ok := b.scanItems(t, s, input, op)
	prefix := b.groupPrefix(t, s, b.reduction(s), cb)
	if ok {
		pred = op(prefix, pred)
	} else {
		pred = prefix
	}
	inclusiveItems(input, output, pred, true, op)
	t.Barrier()
}

// ExclusiveScanItems is the exclusive counterpart of InclusiveScanItems:
// the first item of thread 0 gets init.
func (b *BlockScan[T]) ExclusiveScanItems(t group.Thread, s *Storage[T], input, output []T, init T, op func(a, b T) T) {
	s = b.prepare(t, s, op)
	checkItems(input, output)
	reduced := reduceItems(input, op)
	b.scanThreads(t, s, reduced, op)
	exclusiveItems(input, output, b.seed(t, s, init, op), op)
	t.Barrier()
}

// ExclusiveScanItemsReduce is ExclusiveScanItems that also returns the
// reduction of all items, without init.
func (b *BlockScan[T]) ExclusiveScanItemsReduce(t group.Thread, s *Storage[T], input, output []T, init T, op func(a, b T) T) T {
	s = b.prepare(t, s, op)
	checkItems(input, output)
	reduced := reduceItems(input, op)
	b.scanThreads(t, s, reduced, op)
	reduction := b.reduction(s)
	exclusiveItems(input, output, b.seed(t, s, init, op), op)
	t.Barrier()
	return reduction
}

// ExclusiveScanItemsPrefix is ExclusiveScanItems where the value cb returns
// for the group total takes the place of init.
func (b *BlockScan[T]) ExclusiveScanItemsPrefix(t group.Thread, s *Storage[T], input, output []T, cb PrefixCallback[T], op func(a, b T) T) {
	s = b.prepare(t, s, op)
	checkItems(input, output)
	checkCallback(cb)
	reduced := reduceItems(input, op)
	b.scanThreads(t, s, reduced, op)
	prefix := b.groupPrefix(t, s, b.reduction(s), cb)
	exclusiveItems(input, output, b.seed(t, s, prefix, op), op)
	t.Barrier()
}

// prepare validates a collective call before its first barrier and resolves
// the Storage to use. Failures panic; group.Run reports them.
func (b *BlockScan[T]) prepare(t group.Thread, s *Storage[T], op func(a, b T) T) *Storage[T] {
	if op == nil {
		panic(fmt.Errorf("%w: nil scan operator", ErrInvalidInput))
	}
	if got := t.Layout(); got != b.layout.Group {
		panic(fmt.Errorf("%w: thread runs in group %v, scan expects %v", ErrInvalidInput, got, b.layout.Group))
	}
	if s == nil {
		return b.storage
	}
	if err := b.CheckStorage(s); err != nil {
		panic(err)
	}
	return s
}

func checkItems[T any](input, output []T) {
	if len(input) == 0 {
		panic(fmt.Errorf("%w: no items", ErrInvalidInput))
	}
	if len(output) != len(input) {
		panic(fmt.Errorf("%w: %d inputs, %d outputs", ErrInvalidInput, len(input), len(output)))
	}
}

func checkCallback[T any](cb PrefixCallback[T]) {
	if cb == nil {
		panic(fmt.Errorf("%w: nil prefix callback", ErrInvalidInput))
	}
}

// scanThreads leaves the inclusive scan of every thread's input in
// s.threads. It is the heart of all scan variants.
func (b *BlockScan[T]) scanThreads(t group.Thread, s *Storage[T], input T, op func(a, b T) T) {
	l := b.layout
	flat := t.FlatID()

	s.threads[l.Index(flat)] = input
	t.Barrier()

	if flat < l.Group.Width {
		start, end := l.leaderRange(flat)

		var run partial[T]
		if start < end {
			run = partial[T]{v: s.threads[l.Index(start)], ok: true}
			for n := start + 1; n < end; n++ {
				run.v = op(run.v, s.threads[l.Index(n)])
			}
		}

		// Prefix of everything staged before this leader's run. Lane 0 and
		// leaders after an empty tail get an absent prefix.
		scanned := warp.InclusiveScan(t, run, lift(op))
		carry := warp.ExclusiveFromInclusive(t, scanned, partial[T]{})

		if start < end {
			acc := s.threads[l.Index(start)]
			if carry.ok {
				acc = op(carry.v, acc)
				s.threads[l.Index(start)] = acc
			}
			for n := start + 1; n < end; n++ {
				i := l.Index(n)
				acc = op(acc, s.threads[i])
				s.threads[i] = acc
			}
		}
	}
	t.Barrier()
}

// scanItems reduces the thread's items, scans the reductions across the
// group and returns the inclusive result of the previous thread. ok is false
// on thread 0.
func (b *BlockScan[T]) scanItems(t group.Thread, s *Storage[T], input []T, op func(a, b T) T) (pred T, ok bool) {
	b.scanThreads(t, s, reduceItems(input, op), op)
	if flat := t.FlatID(); flat > 0 {
		return s.threads[b.layout.Index(flat-1)], true
	}
	return pred, false
}

// seed returns the exclusive result of the calling thread given the value
// that precedes thread 0.
func (b *BlockScan[T]) seed(t group.Thread, s *Storage[T], init T, op func(a, b T) T) T {
	flat := t.FlatID()
	if flat == 0 {
		return init
	}
	return op(init, s.threads[b.layout.Index(flat-1)])
}

func (b *BlockScan[T]) reduction(s *Storage[T]) T {
	return s.threads[b.layout.Index(b.layout.Group.BlockSize-1)]
}

// groupPrefix runs cb on thread 0 and broadcasts its result to the group.
func (b *BlockScan[T]) groupPrefix(t group.Thread, s *Storage[T], total T, cb PrefixCallback[T]) T {
	if t.FlatID() == 0 {
		s.prefix = cb.Prefix(total)
	}
	t.Barrier()
	return s.prefix
}

func reduceItems[T any](input []T, op func(a, b T) T) T {
	acc := input[0]
	for _, v := range input[1:] {
		acc = op(acc, v)
	}
	return acc
}

func inclusiveItems[T any](input, output []T, pred T, ok bool, op func(a, b T) T) {
	acc := input[0]
	if ok {
		acc = op(pred, acc)
	}
	output[0] = acc
	for i := 1; i < len(input); i++ {
		acc = op(acc, input[i])
		output[i] = acc
	}
}

func exclusiveItems[T any](input, output []T, seed T, op func(a, b T) T) {
	// input may alias output, so each input is read before its slot is
	// overwritten.
	prev := input[0]
	excl := seed
	output[0] = excl
	for i := 1; i < len(input); i++ {
		excl = op(excl, prev)
		prev = input[i]
		output[i] = excl
	}
}

// partial is a value that may be absent. Leaders with an empty run scan an
// absent value, which lets the sub-group scan skip them without an identity
// element.
type partial[T any] struct {
	v  T
	ok bool
}

func lift[T any](op func(a, b T) T) func(a, b partial[T]) partial[T] {
	return func(a, b partial[T]) partial[T] {
		switch {
		case !a.ok:
			return b
		case !b.ok:
			return a
		}
		return partial[T]{v: op(a.v, b.v), ok: true}
	}
}
