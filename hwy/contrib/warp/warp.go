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

// Package warp provides scans across the lanes of one lock-step sub-group.
//
// Values move between lanes through [group.Thread.Exchange], never through
// group-shared scratch memory. Every function here is collective over the
// caller's sub-group: all of its lanes must call it with the same operator.
package warp

import "github.com/ajroetker/go-blockscan/hwy/contrib/group"

// ShuffleUp returns the value v held by the lane delta positions below the
// caller. Lanes below delta get their own v back.
func ShuffleUp[T any](t group.Thread, v T, delta int) T {
	// The assertion only fails when T is an interface type and the source
	// lane passed nil, in which case the zero T is the right answer.
	r, _ := t.Exchange(v, delta).(T)
	return r
}

// InclusiveScan returns op(v_0, ..., v_lane) over the lanes of the caller's
// sub-group, using the Hillis-Steele algorithm.
//
// For lanes [a, b, c, d]:
//   - Step 1: shift by 1, combine -> [a, a+b, b+c, c+d]
//   - Step 2: shift by 2, combine -> [a, a+b, a+b+c, a+b+c+d]
//
// The shifted value is always the left operand, so op need not be commutative.
func InclusiveScan[T any](t group.Thread, v T, op func(a, b T) T) T {
	width := t.Layout().Width
	lane := t.Lane()
	for offset := 1; offset < width; offset <<= 1 {
		up := ShuffleUp(t, v, offset)
		if lane >= offset {
			v = op(up, v)
		}
	}
	return v
}

// ExclusiveFromInclusive shifts an inclusive scan by one lane. Lane 0 has no
// predecessor and returns first.
func ExclusiveFromInclusive[T any](t group.Thread, inclusive, first T) T {
	up := ShuffleUp(t, inclusive, 1)
	if t.Lane() == 0 {
		return first
	}
	return up
}

// ExclusiveScan returns op(init, v_0, ..., v_{lane-1}); lane 0 gets init.
func ExclusiveScan[T any](t group.Thread, v, init T, op func(a, b T) T) T {
	inclusive := InclusiveScan(t, v, op)
	excl := ExclusiveFromInclusive(t, inclusive, init)
	if t.Lane() == 0 {
		return excl
	}
	return op(init, excl)
}
