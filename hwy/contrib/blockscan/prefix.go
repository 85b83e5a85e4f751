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

import "sync"

// PrefixCallback supplies the running prefix of the groups before the current
// one. Prefix is called exactly once per collective call, by thread 0, with
// the total of the current group; its result is folded into every output of
// the group.
type PrefixCallback[T any] interface {
	Prefix(groupTotal T) T
}

// PrefixFunc adapts a function to PrefixCallback.
type PrefixFunc[T any] func(groupTotal T) T

// Prefix calls f(groupTotal).
func (f PrefixFunc[T]) Prefix(groupTotal T) T {
	return f(groupTotal)
}

// RunningPrefix is a PrefixCallback that chains consecutive groups: it
// returns the aggregate of all totals seen so far and then adds the new total
// to it.
//
// RunningPrefix guards its state with a mutex, but the order in which groups
// call it still decides the result. A driver that wants one scan over the
// concatenation of its groups must run them in order.
type RunningPrefix[T any] struct {
	mu      sync.Mutex
	op      func(a, b T) T
	running T
}

// NewRunningPrefix returns a RunningPrefix starting from init.
func NewRunningPrefix[T any](init T, op func(a, b T) T) *RunningPrefix[T] {
	return &RunningPrefix[T]{op: op, running: init}
}

// Prefix implements PrefixCallback.
func (p *RunningPrefix[T]) Prefix(groupTotal T) T {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefix := p.running
	p.running = p.op(p.running, groupTotal)
	return prefix
}

// Running returns the aggregate of init and every total seen so far.
func (p *RunningPrefix[T]) Running() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
