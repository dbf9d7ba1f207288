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
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-bucket/pkg/util/collection/stack"
)

// blockState captures how many of a block's slots are in use.  Transitions
// between states are the only points at which a block joins or leaves the
// free-block registry.
type blockState uint8

const (
	// blockEmpty means no slot is in use.  A fresh block starts here, and a
	// block which returns here is released.
	blockEmpty blockState = iota
	// blockHasFree means some, but not all, slots are in use.  Exactly the
	// blocks in this state are on the free-block registry.
	blockHasFree
	// blockFull means every slot is in use.
	blockFull
)

func (s blockState) String() string {
	switch s {
	case blockEmpty:
		return "empty"
	case blockHasFree:
		return "has-free"
	case blockFull:
		return "full"
	}
	//
	return fmt.Sprintf("blockState(%d)", uint8(s))
}

// block is a fixed-capacity array of slots along with the bookkeeping needed
// to hand them out and take them back.
type block[T any] struct {
	// serial number, unique within the owning storage and increasing in
	// allocation order.
	serial uint64
	// slots of this block.  This slice is never resized.
	slots []slot[T]
	// indices of unoccupied slots, lowest index on top.
	free *stack.Stack[uint]
	// occupied[i] is set iff slots[i] holds an element.
	occupied *bitset.BitSet
	// number of occupied slots.
	active uint
	// current state
	state blockState
	// links within the free-block registry
	prev, next *block[T]
}

// newBlock allocates a block with a given number of slots, all of which are
// initially free.
func newBlock[T any](serial uint64, capacity uint) *block[T] {
	b := &block[T]{
		serial:   serial,
		slots:    make([]slot[T], capacity),
		free:     stack.NewStackWithCapacity[uint](capacity),
		occupied: bitset.New(capacity),
		state:    blockEmpty,
	}
	//
	indices := make([]uint, capacity)
	//
	for i := range capacity {
		b.slots[i].owner = b
		b.slots[i].index = i
		indices[i] = i
	}
	// Hand out slots in ascending order.
	b.free.PushReversed(indices)
	//
	return b
}

// capacity returns the number of slots in this block.
func (p *block[T]) capacity() uint {
	return uint(len(p.slots))
}

// acquire takes the next free slot of this block and marks it occupied.  The
// caller must ensure the block has a free slot.
func (p *block[T]) acquire() *slot[T] {
	index := p.free.Pop()
	p.occupied.Set(index)
	p.active++
	//
	return &p.slots[index]
}

// release returns an occupied slot to this block's free stack.
func (p *block[T]) release(s *slot[T]) {
	p.occupied.Clear(s.index)
	p.free.Push(s.index)
	p.active--
}

// retire marks every slot of this block as unoccupied, without touching the
// free stack.  This is used when a block is dropped wholesale, such that stale
// iterators into it are recognised as dead.
func (p *block[T]) retire() {
	p.occupied.ClearAll()
	p.active = 0
	p.state = blockEmpty
}

// targetState determines the state this block should be in, given its current
// occupancy.
func (p *block[T]) targetState() blockState {
	switch {
	case p.active == 0:
		return blockEmpty
	case p.free.IsEmpty():
		return blockFull
	default:
		return blockHasFree
	}
}
