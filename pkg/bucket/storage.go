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

	log "github.com/sirupsen/logrus"
)

// DefaultBlockCapacity is the number of slots per block used by New.
const DefaultBlockCapacity = 64

// Config encapsulates the parameters of a storage which are fixed at
// construction time.
type Config struct {
	// Number of slots in every block.  Must be positive.
	BlockCapacity uint
	// Optional logger used to report block allocation and reclamation at debug
	// level.  When nil, nothing is logged.
	Logger log.FieldLogger
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{BlockCapacity: DefaultBlockCapacity}
}

// Storage is a segmented container which preserves insertion order and never
// relocates its elements.  See the package documentation for details.
type Storage[T any] struct {
	// Boundary of the global order.  Never holds a value, never belongs to a
	// block.
	sentinel *slot[T]
	// Blocks with spare slots, and empty blocks awaiting reclamation.
	registry registry[T]
	// Number of live elements.
	size uint
	// Number of slots per block.
	blockCapacity uint
	// Total slots across all live blocks.
	capacity uint
	// Number of live blocks.
	blocks uint
	// Serial number to give the next block.
	serial uint64
	// Debug logger (may be nil).
	logger log.FieldLogger
}

// New constructs an empty storage using blocks of DefaultBlockCapacity slots.
func New[T any]() *Storage[T] {
	return NewWithConfig[T](DefaultConfig())
}

// NewWithCapacity constructs an empty storage using blocks of a given number
// of slots.  This panics if blockCapacity is zero.
func NewWithCapacity[T any](blockCapacity uint) *Storage[T] {
	return NewWithConfig[T](Config{BlockCapacity: blockCapacity})
}

// NewWithConfig constructs an empty storage from a given configuration.  This
// panics if the configured block capacity is zero.
func NewWithConfig[T any](cfg Config) *Storage[T] {
	if cfg.BlockCapacity == 0 {
		panic("bucket: block capacity must be positive")
	}
	//
	p := &Storage[T]{}
	p.init(cfg)
	//
	return p
}

func (p *Storage[T]) init(cfg Config) {
	*p = Storage[T]{
		sentinel:      newSentinel[T](),
		blockCapacity: cfg.BlockCapacity,
		logger:        cfg.Logger,
	}
}

// Config returns the configuration this storage was constructed with.
func (p *Storage[T]) Config() Config {
	return Config{BlockCapacity: p.blockCapacity, Logger: p.logger}
}

// Len returns the number of elements in this storage.
func (p *Storage[T]) Len() uint {
	return p.size
}

// IsEmpty checks whether this storage holds no elements.
func (p *Storage[T]) IsEmpty() bool {
	return p.size == 0
}

// Capacity returns the number of slots allocated, i.e. the number of live
// blocks times the block capacity.
func (p *Storage[T]) Capacity() uint {
	return p.capacity
}

// BlockCapacity returns the number of slots per block.
func (p *Storage[T]) BlockCapacity() uint {
	return p.blockCapacity
}

// Begin returns an iterator to the first (oldest) element, or End() if the
// storage is empty.
func (p *Storage[T]) Begin() Iterator[T] {
	return Iterator[T]{p.sentinel.next}
}

// End returns the iterator one past the last element.  It is also the
// position before the first element when walking backwards.
func (p *Storage[T]) End() Iterator[T] {
	return Iterator[T]{p.sentinel}
}

// CBegin returns a read-only iterator to the first element.
func (p *Storage[T]) CBegin() ConstIterator[T] {
	return ConstIterator[T]{p.sentinel.next}
}

// CEnd returns a read-only iterator one past the last element.
func (p *Storage[T]) CEnd() ConstIterator[T] {
	return ConstIterator[T]{p.sentinel}
}

// Insert appends a value, returning an iterator to it.  The value is moved
// into the storage as is; use InsertCopy for element types which implement
// Copier.
func (p *Storage[T]) Insert(value T) Iterator[T] {
	return p.place(func(s *slot[T]) { s.assign(value) })
}

// InsertCopy appends an independent copy of a value.  If producing the copy
// fails, the error is returned and the storage is unchanged.
func (p *Storage[T]) InsertCopy(value T) (Iterator[T], error) {
	item, err := copyValue(value)
	if err != nil {
		return p.End(), fmt.Errorf("%w: %w", ErrConstruct, err)
	}
	//
	return p.Insert(item), nil
}

// InsertFunc appends a value produced by a given constructor.  If the
// constructor fails (or panics) the storage is unchanged.
func (p *Storage[T]) InsertFunc(ctor func() (T, error)) (Iterator[T], error) {
	item, err := ctor()
	if err != nil {
		return p.End(), fmt.Errorf("%w: %w", ErrConstruct, err)
	}
	//
	return p.Insert(item), nil
}

// place acquires a slot, fills it and links it at the tail of the global
// order.  Should fill panic (e.g. because boxing the value could not be
// allocated), the slot is handed back and any freshly allocated block
// discarded before the panic continues.
func (p *Storage[T]) place(fill func(*slot[T])) Iterator[T] {
	var (
		b, fresh  = p.acquireBlock()
		s         = b.acquire()
		committed = false
	)
	//
	defer func() {
		if !committed {
			// Nothing has been linked or counted yet, and the block's state
			// has not changed, so releasing the slot restores everything.
			b.release(s)
		}
	}()
	//
	fill(s)
	// Link before the sentinel
	p.sentinel.prev.link(s)
	s.link(p.sentinel)
	p.size++
	//
	if fresh {
		p.serial++
		p.blocks++
		p.capacity += p.blockCapacity
		p.debug(b, "allocated block")
	}
	//
	p.transition(b)
	committed = true
	//
	return Iterator[T]{s}
}

// acquireBlock returns the block from which the next slot should be taken,
// allocating a new one when no registered block has a spare slot.  A new block
// is not accounted for until the caller commits to using it.
func (p *Storage[T]) acquireBlock() (*block[T], bool) {
	p.CompactMemory()
	//
	if b := p.registry.peek(); b != nil {
		return b, false
	}
	//
	return newBlock[T](p.serial, p.blockCapacity), true
}

// Erase removes the element at a given position, returning an iterator to the
// element which followed it.  Erasing End() is a no-op which returns End().
// Iterators to other elements are unaffected.
func (p *Storage[T]) Erase(it Iterator[T]) Iterator[T] {
	var s = it.node
	// Ignore the sentinel and slots which are no longer live.
	if s == nil || !s.isLive() {
		return it
	}
	//
	next := s.next
	s.unlink()
	s.vacate()
	//
	b := s.owner
	b.release(s)
	p.size--
	p.transition(b)
	p.CompactMemory()
	//
	return Iterator[T]{next}
}

// transition moves a block into the state matching its occupancy.  This is
// the only place where blocks join or leave the registry.
func (p *Storage[T]) transition(b *block[T]) {
	var next = b.targetState()
	//
	if next == b.state {
		return
	}
	// Leave old state
	if b.state == blockHasFree {
		p.registry.remove(b)
	}
	// Enter new state
	switch next {
	case blockHasFree:
		p.registry.push(b)
	case blockEmpty:
		p.registry.enqueue(b)
	}
	//
	b.state = next
}

// CompactMemory releases every block which has become empty.  The cost is
// proportional to the number of such blocks, not to the number of blocks
// overall.  This is invoked automatically by Erase, hence there is normally
// nothing to do.
func (p *Storage[T]) CompactMemory() {
	p.registry.drain(func(b *block[T]) {
		b.retire()
		p.blocks--
		p.capacity -= p.blockCapacity
		p.debug(b, "released block")
	})
}

// Clear destroys every element and releases every block.
func (p *Storage[T]) Clear() {
	if p.size == 0 && p.blocks == 0 {
		return
	}
	//
	for s := p.sentinel.next; s != p.sentinel; {
		next := s.next
		s.vacate()
		retire(s.owner)
		s.prev, s.next = nil, nil
		s = next
	}
	//
	p.debug(nil, "cleared")
	p.reset()
}

// reset forgets every block and element, leaving the sentinel in place.
func (p *Storage[T]) reset() {
	p.sentinel.link(p.sentinel)
	p.registry.reset()
	p.size = 0
	p.capacity = 0
	p.blocks = 0
}

// drop forgets every element without destroying it, as required when the
// elements have been moved elsewhere.
func (p *Storage[T]) drop() {
	for s := p.sentinel.next; s != p.sentinel; s = s.next {
		retire(s.owner)
	}
	//
	p.reset()
}

// retire a live block, unless this has already been done.
func retire[T any](b *block[T]) {
	if b.state != blockEmpty {
		b.retire()
	}
}

// ShrinkToFit rebuilds this storage so that it occupies the minimum number of
// blocks, preserving the order of elements.  Afterwards Capacity() is Len()
// rounded up to a multiple of the block capacity.  All iterators are
// invalidated.
func (p *Storage[T]) ShrinkToFit() {
	var (
		before = p.capacity
		fresh  = NewWithConfig[T](p.Config())
	)
	//
	for s := p.sentinel.next; s != p.sentinel; s = s.next {
		fresh.Insert(*s.box)
	}
	//
	p.Swap(fresh)
	fresh.drop()
	//
	if p.logger != nil {
		p.logger.WithFields(log.Fields{"before": before, "after": p.capacity, "size": p.size}).
			Debug("shrunk storage")
	}
}

// Swap exchanges the contents of this storage with another in O(1).  No
// element is touched, hence iterators remain valid but now refer into the
// other storage.
func (p *Storage[T]) Swap(other *Storage[T]) {
	*p, *other = *other, *p
}

// GetToDistance advances an iterator by distance steps, or retreats it when
// distance is negative.  The caller must ensure the result stays within
// [Begin(), End()].
func (p *Storage[T]) GetToDistance(it Iterator[T], distance int) Iterator[T] {
	for ; distance > 0; distance-- {
		it = it.Next()
	}
	//
	for ; distance < 0; distance++ {
		it = it.Prev()
	}
	//
	return it
}

// Stats summarises the memory layout of a storage.
type Stats struct {
	// Number of live elements
	Size uint
	// Number of allocated slots
	Capacity uint
	// Number of live blocks
	Blocks uint
	// Number of blocks on the free-block registry
	FreeBlocks uint
}

// Stats returns a summary of the current memory layout.
func (p *Storage[T]) Stats() Stats {
	return Stats{p.size, p.capacity, p.blocks, p.registry.count}
}

func (p *Storage[T]) debug(b *block[T], msg string) {
	if p.logger == nil {
		return
	}
	//
	fields := log.Fields{"capacity": p.capacity, "size": p.size, "blocks": p.blocks}
	//
	if b != nil {
		fields["block"] = b.serial
	}
	//
	p.logger.WithFields(fields).Debug(msg)
}
