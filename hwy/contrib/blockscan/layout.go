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
	"errors"
	"fmt"

	"github.com/ajroetker/go-blockscan/hwy"
	"github.com/ajroetker/go-blockscan/hwy/contrib/group"
)

// DefaultBanks is the number of banks in one row of scratch memory.
const DefaultBanks = 32

var (
	// ErrInvalidConfig is returned by New for unusable configurations.
	ErrInvalidConfig = errors.New("blockscan: invalid config")

	// ErrInvalidInput reports a collective call with bad arguments.
	ErrInvalidInput = errors.New("blockscan: invalid input")

	// ErrStorageSize reports a Storage sized for a different layout.
	ErrStorageSize = errors.New("blockscan: storage size mismatch")
)

// Config fixes the shape of a BlockScan. It is immutable once the BlockScan
// is built.
type Config struct {
	// BlockSize is the number of threads in the group.
	BlockSize int

	// Width is the sub-group width. It must be a power of two no larger than
	// BlockSize. Zero derives it from hwy.NativeLanes for the element type.
	Width int

	// Banks is the number of scratch banks per row used for conflict
	// padding. Zero means DefaultBanks.
	Banks int

	// DisablePadding turns off bank-conflict padding. Results are identical
	// either way.
	DisablePadding bool
}

// Layout describes how thread values are staged in Storage.
type Layout struct {
	Group group.Layout

	// ThreadReductionSize is how many staged values each leader reduces:
	// ceil(BlockSize / Width).
	ThreadReductionSize int

	// Banks is the row width used by Index.
	Banks int

	// Padded reports whether Index inserts pad slots. It is set when the
	// leaders' runs are a power of two longer than one, which makes the
	// leaders hit the same bank at every step.
	Padded bool
}

// NewLayout computes the staging layout for a group.
func NewLayout(g group.Layout, banks int, disablePadding bool) (Layout, error) {
	if err := g.Validate(); err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if banks == 0 {
		banks = DefaultBanks
	}
	if banks < 1 {
		return Layout{}, fmt.Errorf("%w: %d banks", ErrInvalidConfig, banks)
	}
	trs := (g.BlockSize + g.Width - 1) / g.Width
	return Layout{
		Group:               g,
		ThreadReductionSize: trs,
		Banks:               banks,
		Padded:              !disablePadding && trs > 1 && hwy.IsPowerOfTwo(trs),
	}, nil
}

// Index maps a logical thread position to its Storage slot. Every full row
// of Banks slots is followed by one pad slot when the layout is padded.
func (l Layout) Index(n int) int {
	if l.Padded {
		return n + n/l.Banks
	}
	return n
}

// Padding returns the number of pad slots in Storage.
func (l Layout) Padding() int {
	if !l.Padded {
		return 0
	}
	return l.Group.Width * l.ThreadReductionSize / l.Banks
}

// StorageSize returns the exact number of slots a Storage must hold.
func (l Layout) StorageSize() int {
	return l.Group.Width*l.ThreadReductionSize + l.Padding()
}

// leaderRange returns the logical positions [start, end) reduced by the
// leader on the given lane. Runs are clamped to BlockSize, so trailing
// leaders of a group that is not a multiple of Width may get an empty run.
func (l Layout) leaderRange(lane int) (start, end int) {
	start = min(lane*l.ThreadReductionSize, l.Group.BlockSize)
	end = min(start+l.ThreadReductionSize, l.Group.BlockSize)
	return start, end
}

func (l Layout) String() string {
	return fmt.Sprintf("%v, %d per leader, %d slots (padding %d)",
		l.Group, l.ThreadReductionSize, l.StorageSize(), l.Padding())
}
