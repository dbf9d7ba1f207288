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

// registry tracks the blocks which currently have spare slots, along with the
// blocks which have become empty and are awaiting reclamation.  Blocks with
// spare slots form an intrusive LIFO list, so the most recently freed-into
// block is reused first and any block can be withdrawn in O(1).
type registry[T any] struct {
	// most recently registered block
	top *block[T]
	// number of registered blocks
	count uint
	// empty blocks awaiting reclamation
	pending []*block[T]
}

// peek returns the block on top of the registry, or nil if there is none.
func (p *registry[T]) peek() *block[T] {
	return p.top
}

// push registers a block as having spare slots.
func (p *registry[T]) push(b *block[T]) {
	b.prev = nil
	b.next = p.top
	//
	if p.top != nil {
		p.top.prev = b
	}
	//
	p.top = b
	p.count++
}

// remove withdraws a registered block.
func (p *registry[T]) remove(b *block[T]) {
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		p.top = b.next
	}
	//
	if b.next != nil {
		b.next.prev = b.prev
	}
	//
	b.prev, b.next = nil, nil
	p.count--
}

// enqueue queues an empty block for reclamation.
func (p *registry[T]) enqueue(b *block[T]) {
	p.pending = append(p.pending, b)
}

// drain passes every block awaiting reclamation to fn, then forgets them.
func (p *registry[T]) drain(fn func(*block[T])) {
	for _, b := range p.pending {
		fn(b)
	}
	//
	clear(p.pending)
	p.pending = p.pending[:0]
}

// each calls fn for every registered block, from top to bottom.
func (p *registry[T]) each(fn func(*block[T])) {
	for b := p.top; b != nil; b = b.next {
		fn(b)
	}
}

// reset forgets every block.
func (p *registry[T]) reset() {
	*p = registry[T]{}
}
