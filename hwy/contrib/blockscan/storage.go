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

// Storage is the group-shared scratch memory of a scan. One Storage must be
// used by one group at a time; it can be reused for any number of
// consecutive collective calls of the same group.
type Storage[T any] struct {
	// threads holds one staged value per thread, addressed via Layout.Index.
	threads []T

	// prefix carries the prefix callback result from thread 0 to the rest of
	// the group. It is kept apart from threads so the broadcast never
	// overwrites a staged value.
	prefix T
}

// NewStorage allocates Storage for the given layout.
func NewStorage[T any](l Layout) *Storage[T] {
	return &Storage[T]{threads: make([]T, l.StorageSize())}
}

// Len returns the number of staging slots.
func (s *Storage[T]) Len() int {
	return len(s.threads)
}
