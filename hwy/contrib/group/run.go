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
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Launcher starts n concurrent executions of fn(0) ... fn(n-1) and returns
// once all of them have returned. All n calls must be able to run at the same
// time, since threads of a group block on each other.
type Launcher interface {
	Launch(n int, fn func(i int)) error
}

// Run executes fn once per thread of a new group, each on its own goroutine,
// and waits for all of them. It returns the first error a thread returned or
// panicked with.
//
// ctx is only consulted before the group starts: once launched, a collective
// call runs to completion for every thread.
func Run(ctx context.Context, layout Layout, fn func(Thread) error) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	g := NewGroup(layout)
	var eg errgroup.Group
	for i := range layout.BlockSize {
		eg.Go(func() error {
			return g.Execute(i, fn)
		})
	}
	return eg.Wait()
}

// RunWith is like Run but places the threads on goroutines supplied by l,
// for example a persistent worker pool.
func RunWith(ctx context.Context, l Launcher, layout Layout, fn func(Thread) error) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	g := NewGroup(layout)
	var (
		mu       sync.Mutex
		firstErr error
	)
	err := l.Launch(layout.BlockSize, func(i int) {
		if err := g.Execute(i, fn); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	})
	if err != nil {
		return err
	}
	return firstErr
}
