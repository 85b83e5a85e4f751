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

// Package group runs a fixed-size set of goroutines as one cooperative
// thread group, the CPU counterpart of a GPU thread block.
//
// Every goroutine receives a [Thread] that knows its flat rank in the group,
// the lock-step sub-group it belongs to and its lane inside that sub-group.
// Threads synchronize with [Thread.Barrier] and exchange values across lanes
// of a sub-group with [Thread.Exchange].
//
// # Collective calls
//
// A collective call is code that every thread of the group executes with the
// same arguments. Barriers inside it must be reached by all threads in the
// same order. A thread that returns while others still wait on a barrier, or
// that panics, breaks the group: every waiter unwinds and [Run] reports the
// cause instead of deadlocking.
//
// # Example
//
//	layout, _ := group.NewLayout(8, 4)
//	shared := make([]int, 8)
//	err := group.Run(ctx, layout, func(t group.Thread) error {
//	    shared[t.FlatID()] = t.FlatID() * t.FlatID()
//	    t.Barrier()
//	    _ = shared[(t.FlatID()+1)%8] // written by a neighbour, visible after the barrier
//	    return nil
//	})
package group
