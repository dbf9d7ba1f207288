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

// Iterator is a bidirectional cursor over the elements of a storage.  It is a
// small value type which can be copied freely.  An iterator refers to a slot,
// not to a position, hence it stays attached to its element as other elements
// come and go.
type Iterator[T any] struct {
	node *slot[T]
}

// Next returns an iterator to the following element (or End()).
func (p Iterator[T]) Next() Iterator[T] {
	return Iterator[T]{p.node.next}
}

// Prev returns an iterator to the preceding element.  The predecessor of
// Begin() is End().
func (p Iterator[T]) Prev() Iterator[T] {
	return Iterator[T]{p.node.prev}
}

// Value returns a pointer to the element, which remains valid until the
// element is erased.  This returns nil for End().
func (p Iterator[T]) Value() *T {
	return p.node.box
}

// Get returns (a copy of) the element.  This panics for End().
func (p Iterator[T]) Get() T {
	if p.node.isSentinel() {
		panic("bucket: dereferencing end iterator")
	}
	//
	return *p.node.box
}

// Set overwrites the element.  This panics for End().
func (p Iterator[T]) Set(value T) {
	if p.node.isSentinel() {
		panic("bucket: dereferencing end iterator")
	}
	//
	*p.node.box = value
}

// IsEnd checks whether this is the end iterator of its storage.
func (p Iterator[T]) IsEnd() bool {
	return p.node.isSentinel()
}

// Equal checks whether two iterators refer to the same slot.
func (p Iterator[T]) Equal(other Iterator[T]) bool {
	return p.node == other.node
}

// Less orders iterators by the identity of the slot they refer to (block
// allocation order, then position in block), with End() after everything.
// This is only meaningful for iterators of the same storage.
func (p Iterator[T]) Less(other Iterator[T]) bool {
	return compareSlots(p.node, other.node) < 0
}

// LessEq is the non-strict version of Less.
func (p Iterator[T]) LessEq(other Iterator[T]) bool {
	return compareSlots(p.node, other.node) <= 0
}

// Greater is the converse of Less.
func (p Iterator[T]) Greater(other Iterator[T]) bool {
	return compareSlots(p.node, other.node) > 0
}

// GreaterEq is the non-strict version of Greater.
func (p Iterator[T]) GreaterEq(other Iterator[T]) bool {
	return compareSlots(p.node, other.node) >= 0
}

// Const returns a read-only iterator to the same slot.
func (p Iterator[T]) Const() ConstIterator[T] {
	return ConstIterator[T](p)
}

// ConstIterator is a read-only view of the same cursor as Iterator.  There is
// deliberately no conversion back to Iterator.
type ConstIterator[T any] struct {
	node *slot[T]
}

// Next returns an iterator to the following element (or the end).
func (p ConstIterator[T]) Next() ConstIterator[T] {
	return ConstIterator[T]{p.node.next}
}

// Prev returns an iterator to the preceding element.
func (p ConstIterator[T]) Prev() ConstIterator[T] {
	return ConstIterator[T]{p.node.prev}
}

// Get returns (a copy of) the element.  This panics at the end.
func (p ConstIterator[T]) Get() T {
	if p.node.isSentinel() {
		panic("bucket: dereferencing end iterator")
	}
	//
	return *p.node.box
}

// IsEnd checks whether this is the end iterator of its storage.
func (p ConstIterator[T]) IsEnd() bool {
	return p.node.isSentinel()
}

// Equal checks whether two iterators refer to the same slot.
func (p ConstIterator[T]) Equal(other ConstIterator[T]) bool {
	return p.node == other.node
}

// Less orders iterators in the same way as Iterator.Less.
func (p ConstIterator[T]) Less(other ConstIterator[T]) bool {
	return compareSlots(p.node, other.node) < 0
}

// LessEq checks whether this iterator is ordered before, or equal to, another.
func (p ConstIterator[T]) LessEq(other ConstIterator[T]) bool {
	return compareSlots(p.node, other.node) <= 0
}

// Greater checks whether this iterator is ordered after another.
func (p ConstIterator[T]) Greater(other ConstIterator[T]) bool {
	return compareSlots(p.node, other.node) > 0
}

// GreaterEq checks whether this iterator is ordered after, or equal to,
// another.
func (p ConstIterator[T]) GreaterEq(other ConstIterator[T]) bool {
	return compareSlots(p.node, other.node) >= 0
}
