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

import "github.com/ajroetker/go-blockscan/hwy"

// Plus returns a + b.
func Plus[T hwy.Lanes](a, b T) T { return a + b }

// Product returns a * b.
func Product[T hwy.Lanes](a, b T) T { return a * b }

// Max returns the larger of a and b.
func Max[T hwy.Lanes](a, b T) T { return max(a, b) }

// Min returns the smaller of a and b.
func Min[T hwy.Lanes](a, b T) T { return min(a, b) }
