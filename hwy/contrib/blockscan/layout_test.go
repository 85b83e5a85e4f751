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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-blockscan/hwy/contrib/group"
)

func TestLayoutPadding(t *testing.T) {
	tests := []struct {
		name      string
		blockSize int
		width     int
		disable   bool
		trs       int
		padded    bool
		size      int
		index     map[int]int
	}{
		{
			name: "power of two run is padded", blockSize: 64, width: 16,
			trs: 4, padded: true, size: 66,
			index: map[int]int{0: 0, 31: 31, 32: 33, 63: 64},
		},
		{
			name: "padding disabled", blockSize: 64, width: 16, disable: true,
			trs: 4, padded: false, size: 64,
			index: map[int]int{32: 32, 63: 63},
		},
		{
			name: "odd run is not padded", blockSize: 48, width: 16,
			trs: 3, padded: false, size: 48,
			index: map[int]int{47: 47},
		},
		{
			name: "single item run is not padded", blockSize: 16, width: 16,
			trs: 1, padded: false, size: 16,
			index: map[int]int{15: 15},
		},
		{
			name: "partial trailing run", blockSize: 100, width: 8,
			trs: 13, padded: false, size: 104,
			index: map[int]int{99: 99},
		},
		{
			name: "short block padded without pad slots", blockSize: 8, width: 4,
			trs: 2, padded: true, size: 8,
			index: map[int]int{7: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLayout(group.Layout{BlockSize: tt.blockSize, Width: tt.width}, 0, tt.disable)
			require.NoError(t, err)
			assert.Equal(t, tt.trs, l.ThreadReductionSize)
			assert.Equal(t, tt.padded, l.Padded)
			assert.Equal(t, tt.size, l.StorageSize())
			for n, want := range tt.index {
				assert.Equal(t, want, l.Index(n), "Index(%d)", n)
			}
			// Every logical position maps to a distinct slot inside Storage.
			seen := map[int]bool{}
			for n := range tt.width * tt.trs {
				i := l.Index(n)
				assert.Less(t, i, l.StorageSize())
				assert.False(t, seen[i], "slot %d used twice", i)
				seen[i] = true
			}
		})
	}
}

func TestLayoutLeaderRange(t *testing.T) {
	l, err := NewLayout(group.Layout{BlockSize: 5, Width: 4}, 0, false)
	require.NoError(t, err)
	require.Equal(t, 2, l.ThreadReductionSize)

	ranges := make([][2]int, 4)
	for lane := range 4 {
		s, e := l.leaderRange(lane)
		ranges[lane] = [2]int{s, e}
	}
	assert.Equal(t, [][2]int{{0, 2}, {2, 4}, {4, 5}, {5, 5}}, ranges)
}

func TestNewLayoutErrors(t *testing.T) {
	_, err := NewLayout(group.Layout{BlockSize: 8, Width: 3}, 0, false)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, group.ErrInvalidLayout)

	_, err = NewLayout(group.Layout{BlockSize: 8, Width: 4}, -1, false)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	l, err := NewLayout(group.Layout{BlockSize: 8, Width: 4}, 0, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultBanks, l.Banks)
	assert.Contains(t, l.String(), "8 threads x 4 lanes")
}
