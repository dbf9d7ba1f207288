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

import "math"

// sentinelSerial orders the sentinel after every slot of every block.
const sentinelSerial = math.MaxUint64

// Copier is implemented by element types which need more than a plain
// assignment to produce an independent copy of themselves.  It is consulted by
// InsertCopy, Clone and Assign.
type Copier[T any] interface {
	Copy() (T, error)
}

// Releaser is implemented by element types which hold resources that must be
// released when the element is destroyed.  Release is invoked exactly once for
// every element which is erased or cleared from a storage.  Elements which are
// moved (e.g. by ShrinkToFit or MoveFrom) are not released.
type Releaser interface {
	Release()
}

// slot is a single element cell.  Slots are allocated as part of a block and
// are never relocated, hence a pointer to a slot is a stable identity for the
// lifetime of its block.
type slot[T any] struct {
	// Neighbours in the global insertion order.
	prev *slot[T]
	next *slot[T]
	// Owning block, or nil for the sentinel.
	owner *block[T]
	// Position within the owning block.
	index uint
	// Lazily allocated element storage.  Once allocated, the box is retained
	// across vacate/assign cycles.
	box *T
}

// newSentinel constructs a detached sentinel which forms an empty circular
// list on its own.
func newSentinel[T any]() *slot[T] {
	s := &slot[T]{}
	s.link(s)
	//
	return s
}

// link makes next the successor of this slot.
func (p *slot[T]) link(next *slot[T]) {
	p.next = next
	next.prev = p
}

// unlink splices this slot out of the global order.
func (p *slot[T]) unlink() {
	p.prev.link(p.next)
	p.prev, p.next = nil, nil
}

// isSentinel checks whether this is the boundary slot of a storage.
func (p *slot[T]) isSentinel() bool {
	return p.owner == nil
}

// isLive checks whether this slot currently holds an element.
func (p *slot[T]) isLive() bool {
	return p.owner != nil && p.owner.occupied.Test(p.index)
}

// order returns the ordering key of this slot.
func (p *slot[T]) order() (uint64, uint) {
	if p.owner == nil {
		return sentinelSerial, 0
	}
	//
	return p.owner.serial, p.index
}

// assign places a value into this slot, reusing an existing box when there is
// one.
func (p *slot[T]) assign(value T) {
	if p.box == nil {
		p.box = new(T)
	}
	//
	*p.box = value
}

// vacate destroys the held value, leaving the (zeroed) box for reuse.
func (p *slot[T]) vacate() {
	var zero T
	//
	release(p.box)
	*p.box = zero
}

// release invokes Releaser on a boxed value, if it implements it.  Both
// pointer and value receivers are considered.
func release[T any](box *T) {
	if r, ok := any(box).(Releaser); ok {
		r.Release()
	} else if r, ok := any(*box).(Releaser); ok {
		r.Release()
	}
}

// copyValue produces an independent copy of a value, using Copier when
// implemented and plain assignment otherwise.
func copyValue[T any](value T) (T, error) {
	if c, ok := any(value).(Copier[T]); ok {
		return c.Copy()
	} else if c, ok := any(&value).(Copier[T]); ok {
		return c.Copy()
	}
	//
	return value, nil
}

// compareSlots orders two slots by (block serial, index), with the sentinel
// greater than any other slot.
func compareSlots[T any](a, b *slot[T]) int {
	var (
		as, ai = a.order()
		bs, bi = b.order()
	)
	//
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	}
	//
	return 0
}
