// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package bucket

import (
	stditer "iter"

	"github.com/consensys/go-bucket/pkg/util/collection/iter"
)

// Enumerate returns an iterator over the elements of this storage in insertion
// order.  The iterator must not be used after the storage is modified.
func (p *Storage[T]) Enumerate() iter.Iterator[T] {
	return &enumerator[T]{p.sentinel.next, p.sentinel}
}

// All returns a sequence of pointers to the elements of this storage, in
// insertion order.  The element being visited may be erased during the loop
// (via an iterator obtained elsewhere) but no other element may be.
func (p *Storage[T]) All() stditer.Seq[*T] {
	return func(yield func(*T) bool) {
		for s := p.sentinel.next; s != p.sentinel; {
			// Read next before yielding, since s may be erased.
			next := s.next
			if !yield(s.box) {
				return
			}
			//
			s = next
		}
	}
}

// Backward returns a sequence of pointers to the elements of this storage,
// most recently inserted first.
func (p *Storage[T]) Backward() stditer.Seq[*T] {
	return func(yield func(*T) bool) {
		for s := p.sentinel.prev; s != p.sentinel; {
			prev := s.prev
			if !yield(s.box) {
				return
			}
			//
			s = prev
		}
	}
}

// enumerator walks the global order from a given slot up to the sentinel.
type enumerator[T any] struct {
	cursor *slot[T]
	end    *slot[T]
}

//nolint:revive
func (p *enumerator[T]) HasNext() bool {
	return p.cursor != p.end
}

//nolint:revive
func (p *enumerator[T]) Next() T {
	if p.cursor == p.end {
		panic("iterator out-of-bounds")
	}
	//
	item := *p.cursor.box
	p.cursor = p.cursor.next
	//
	return item
}

//nolint:revive
func (p *enumerator[T]) Append(other iter.Iterator[T]) iter.Iterator[T] {
	return iter.NewAppendIterator[T](p, other)
}

//nolint:revive
func (p *enumerator[T]) Clone() iter.Iterator[T] {
	return &enumerator[T]{p.cursor, p.end}
}

//nolint:revive
func (p *enumerator[T]) Collect() []T {
	return iter.Collect[T](p)
}

//nolint:revive
func (p *enumerator[T]) Count() uint {
	return iter.Count[T](&enumerator[T]{p.cursor, p.end})
}

//nolint:revive
func (p *enumerator[T]) Find(predicate iter.Predicate[T]) (uint, bool) {
	return iter.Find(p, predicate)
}

//nolint:revive
func (p *enumerator[T]) Nth(n uint) T {
	return iter.Nth[T](p, n)
}
