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

package algo

import "github.com/ajroetker/go-blockscan/hwy"

// InclusiveScan replaces data[i] with op(data[0], ..., data[i]) in place,
// combining strictly left to right.
//
// Example:
//
//	data := []int64{1, 2, 3, 4}
//	InclusiveScan(data, func(a, b int64) int64 { return a + b })
//	// data = [1, 3, 6, 10]
//
// If you need to preserve the original, copy first:
//
//	result := slices.Clone(src)
//	InclusiveScan(result, op)
func InclusiveScan[T any](data []T, op func(a, b T) T) {
	if len(data) == 0 {
		return
	}
	carry := data[0]
	for i := 1; i < len(data); i++ {
		carry = op(carry, data[i])
		data[i] = carry
	}
}

// ExclusiveScan replaces data[i] with op(init, data[0], ..., data[i-1]) in
// place; data[0] becomes init.
//
// Example:
//
//	data := []int64{1, 2, 3, 4}
//	ExclusiveScan(data, 100, func(a, b int64) int64 { return a + b })
//	// data = [100, 101, 103, 106]
func ExclusiveScan[T any](data []T, init T, op func(a, b T) T) {
	carry := init
	for i := range data {
		next := op(carry, data[i])
		data[i] = carry
		carry = next
	}
}

// Reduce returns op(data[0], ..., data[n-1]). The second result is false
// when data is empty.
func Reduce[T any](data []T, op func(a, b T) T) (T, bool) {
	var acc T
	if len(data) == 0 {
		return acc, false
	}
	acc = data[0]
	for _, v := range data[1:] {
		acc = op(acc, v)
	}
	return acc, true
}

// PrefixSum computes the inclusive prefix sum in place.
// Result[i] = data[0] + data[1] + ... + data[i]
func PrefixSum[T hwy.Lanes](data []T) {
	InclusiveScan(data, func(a, b T) T { return a + b })
}
