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

// Package blockscan computes prefix scans cooperatively across the threads of
// a [group.Group].
//
// Every thread contributes one value, or a fixed number of values, and gets
// back its slice of the scan of all values in thread order. Scans are
// inclusive or exclusive, over any associative operator; the operator does
// not have to be commutative.
//
// # Algorithm
//
// BlockScan uses the reduce-then-scan strategy:
//
//  1. Each thread reduces its own items and stages the result in Storage.
//  2. The first Width threads ("leaders") each reduce a contiguous run of
//     ThreadReductionSize staged values.
//  3. The leaders scan their reductions with a sub-group scan (package warp)
//     and shift it by one lane to get the prefix of each run.
//  4. Each leader folds its prefix through its run, leaving the inclusive
//     scan of every thread in Storage.
//  5. Threads read their result back and finish their own items locally.
//
// An optional [PrefixCallback] receives the group total and returns the
// running prefix of everything before this group, which is then folded into
// every result. This is how a driver chains many groups into one scan.
//
// # Usage
//
//	scan, err := blockscan.New[int](blockscan.Config{BlockSize: 256})
//	...
//	err = group.Run(ctx, scan.GroupLayout(), func(t group.Thread) error {
//	    out[t.FlatID()] = scan.InclusiveScan(t, nil, in[t.FlatID()], blockscan.Plus[int])
//	    return nil
//	})
//
// All methods taking a [group.Thread] are collective: every thread of the
// group must call the same method with the same operator and Storage. A nil
// Storage selects the BlockScan's own storage, which limits that BlockScan to
// one group at a time; groups running concurrently each need a Storage from
// [BlockScan.NewStorage].
package blockscan
