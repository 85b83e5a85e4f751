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

// Package algo provides sequential scan and reduction algorithms over slices.
//
// These are the single-threaded definitions that the cooperative scans in
// hwy/contrib/blockscan must agree with, element for element:
//   - InclusiveScan(data, op): data[i] = op(data[0], ..., data[i])
//   - ExclusiveScan(data, init, op): data[i] = op(init, data[0], ..., data[i-1])
//   - Reduce(data, op): op(data[0], ..., data[n-1])
//
// Operators only need to be associative. Operands are always combined in
// their original left-to-right order.
//
// # Example Usage
//
//	import "github.com/ajroetker/go-blockscan/hwy/contrib/algo"
//
//	want := slices.Clone(values)
//	algo.InclusiveScan(want, func(a, b float64) float64 { return a + b })
package algo
