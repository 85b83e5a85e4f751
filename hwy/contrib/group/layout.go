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

	"github.com/ajroetker/go-blockscan/hwy"
)

// ErrInvalidLayout is returned for group shapes that cannot be executed.
var ErrInvalidLayout = errors.New("group: invalid layout")

// Layout fixes the shape of a thread group: how many threads cooperate and
// how wide each lock-step sub-group is.
type Layout struct {
	// BlockSize is the number of threads in the group.
	BlockSize int
	// Width is the number of lanes per sub-group. Always a power of two.
	Width int
}

// NewLayout returns a validated layout. A width of 0 derives the width from
// the native lane count for 32-bit elements.
func NewLayout(blockSize, width int) (Layout, error) {
	if width == 0 {
		width = DeriveWidth(blockSize, hwy.NativeLanes[uint32]())
	}
	l := Layout{BlockSize: blockSize, Width: width}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// DeriveWidth picks the sub-group width for a group: the native lane count
// clamped to the group size and rounded down to a power of two.
func DeriveWidth(blockSize, native int) int {
	w := hwy.FloorPowerOfTwo(min(blockSize, native))
	if w < 1 {
		return 1
	}
	return w
}

// Validate checks the layout invariants.
func (l Layout) Validate() error {
	if l.BlockSize < 1 {
		return fmt.Errorf("%w: block size %d", ErrInvalidLayout, l.BlockSize)
	}
	if !hwy.IsPowerOfTwo(l.Width) {
		return fmt.Errorf("%w: sub-group width %d is not a power of two", ErrInvalidLayout, l.Width)
	}
	if l.Width > l.BlockSize {
		return fmt.Errorf("%w: sub-group width %d exceeds block size %d", ErrInvalidLayout, l.Width, l.BlockSize)
	}
	return nil
}

// Subgroups returns the number of sub-groups. The last one is partial when
// BlockSize is not a multiple of Width.
func (l Layout) Subgroups() int {
	return (l.BlockSize + l.Width - 1) / l.Width
}

// SubgroupID returns the sub-group of the thread with the given flat rank.
func (l Layout) SubgroupID(flat int) int {
	return flat / l.Width
}

// Lane returns the lane of the thread with the given flat rank.
func (l Layout) Lane(flat int) int {
	return flat % l.Width
}

// SubgroupSize returns how many threads sub-group id holds.
func (l Layout) SubgroupSize(id int) int {
	return min(l.Width, l.BlockSize-id*l.Width)
}

func (l Layout) String() string {
	return fmt.Sprintf("%d threads x %d lanes", l.BlockSize, l.Width)
}
