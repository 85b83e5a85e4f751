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

package warp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-blockscan/hwy/contrib/group"
)

func runLanes(t *testing.T, blockSize, width int, fn func(th group.Thread)) {
	t.Helper()
	layout, err := group.NewLayout(blockSize, width)
	require.NoError(t, err)
	require.NoError(t, group.Run(context.Background(), layout, func(th group.Thread) error {
		fn(th)
		return nil
	}))
}

func TestInclusiveScan(t *testing.T) {
	for _, width := range []int{1, 2, 4, 8, 16} {
		t.Run(fmt.Sprintf("width=%d", width), func(t *testing.T) {
			got := make([]int, width)
			runLanes(t, width, width, func(th group.Thread) {
				got[th.FlatID()] = InclusiveScan(th, th.Lane()+1, func(a, b int) int { return a + b })
			})
			for i, v := range got {
				assert.Equal(t, (i+1)*(i+2)/2, v, "lane %d", i)
			}
		})
	}
}

func TestInclusiveScanNonCommutative(t *testing.T) {
	concat := func(a, b string) string { return a + b }
	got := make([]string, 8)
	runLanes(t, 8, 8, func(th group.Thread) {
		got[th.FlatID()] = InclusiveScan(th, string(rune('a'+th.Lane())), concat)
	})
	assert.Equal(t, []string{"a", "ab", "abc", "abcd", "abcde", "abcdef", "abcdefg", "abcdefgh"}, got)
}

func TestInclusiveScanPerSubgroup(t *testing.T) {
	// 10 threads in sub-groups of 4: [0..3], [4..7], [8, 9].
	got := make([]int, 10)
	runLanes(t, 10, 4, func(th group.Thread) {
		got[th.FlatID()] = InclusiveScan(th, 1, func(a, b int) int { return a + b })
	})
	assert.Equal(t, []int{1, 2, 3, 4, 1, 2, 3, 4, 1, 2}, got)
}

func TestShuffleUp(t *testing.T) {
	got := make([]float64, 4)
	runLanes(t, 4, 4, func(th group.Thread) {
		got[th.FlatID()] = ShuffleUp(th, float64(th.Lane())*1.5, 2)
	})
	assert.Equal(t, []float64{0, 1.5, 0, 1.5}, got)
}

func TestShuffleUpNilInterface(t *testing.T) {
	got := make([]error, 2)
	runLanes(t, 2, 2, func(th group.Thread) {
		got[th.FlatID()] = ShuffleUp[error](th, nil, 1)
	})
	assert.Equal(t, []error{nil, nil}, got)
}

func TestExclusiveScan(t *testing.T) {
	got := make([]int, 4)
	runLanes(t, 4, 4, func(th group.Thread) {
		got[th.FlatID()] = ExclusiveScan(th, th.Lane()+1, 100, func(a, b int) int { return a + b })
	})
	assert.Equal(t, []int{100, 101, 103, 106}, got)
}

func TestExclusiveFromInclusive(t *testing.T) {
	got := make([]int, 4)
	runLanes(t, 4, 4, func(th group.Thread) {
		got[th.FlatID()] = ExclusiveFromInclusive(th, (th.Lane()+1)*10, -1)
	})
	assert.Equal(t, []int{-1, 10, 20, 30}, got)
}
