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
)

// Validate checks the internal consistency of this storage, returning an error
// wrapping ErrCorrupt which describes the first inconsistency found.  This is
// linear in the capacity of the storage, and is intended for tests and
// debugging.
func (p *Storage[T]) Validate() error {
	if p.blockCapacity == 0 {
		return corrupt("block capacity is zero")
	} else if p.capacity != p.blocks*p.blockCapacity {
		return corrupt("capacity %d is not %d blocks of %d", p.capacity, p.blocks, p.blockCapacity)
	} else if p.size > p.capacity {
		return corrupt("size %d exceeds capacity %d", p.size, p.capacity)
	} else if len(p.registry.pending) != 0 {
		return corrupt("%d empty blocks awaiting reclamation", len(p.registry.pending))
	}
	//
	blocks, err := p.validateOrder()
	if err != nil {
		return err
	} else if uint(len(blocks)) != p.blocks {
		return corrupt("found %d blocks, expected %d", len(blocks), p.blocks)
	}
	//
	for b, n := range blocks {
		if err := p.validateBlock(b, n); err != nil {
			return err
		}
	}
	//
	return p.validateRegistry(blocks)
}

// validateOrder walks the global order, checking links and occupancy, and
// counting the elements found in each block.
func (p *Storage[T]) validateOrder() (map[*block[T]]uint, error) {
	var (
		blocks = make(map[*block[T]]uint)
		count  uint
	)
	//
	if !p.sentinel.isSentinel() {
		return nil, corrupt("sentinel belongs to a block")
	}
	//
	for s := p.sentinel.next; s != p.sentinel; s = s.next {
		switch {
		case count == p.size:
			return nil, corrupt("more than %d elements linked", p.size)
		case s.next == nil || s.next.prev != s:
			return nil, corrupt("broken link after element %d", count)
		case s.isSentinel():
			return nil, corrupt("foreign sentinel at element %d", count)
		case !s.isLive():
			return nil, corrupt("element %d is not marked occupied", count)
		case s.box == nil:
			return nil, corrupt("element %d has no value", count)
		case &s.owner.slots[s.index] != s:
			return nil, corrupt("element %d is not at its recorded index", count)
		}
		//
		blocks[s.owner]++
		count++
	}
	//
	if count != p.size {
		return nil, corrupt("found %d elements, expected %d", count, p.size)
	} else if p.sentinel.next.prev != p.sentinel {
		return nil, corrupt("broken link after sentinel")
	}
	//
	return blocks, nil
}

// validateBlock checks the bookkeeping of a single block holding n elements.
func (p *Storage[T]) validateBlock(b *block[T], n uint) error {
	var free = bitset.New(b.capacity())
	//
	switch {
	case b.capacity() != p.blockCapacity:
		return corrupt("block %d has %d slots", b.serial, b.capacity())
	case b.serial >= p.serial:
		return corrupt("block %d has serial beyond %d", b.serial, p.serial)
	case b.active != n:
		return corrupt("block %d has %d active slots, but %d linked", b.serial, b.active, n)
	case b.occupied.Count() != n:
		return corrupt("block %d has %d occupied slots, but %d linked", b.serial, b.occupied.Count(), n)
	case b.free.Len()+n != b.capacity():
		return corrupt("block %d has %d free slots, expected %d", b.serial, b.free.Len(), b.capacity()-n)
	case b.state != b.targetState():
		return corrupt("block %d is %s, expected %s", b.serial, b.state, b.targetState())
	}
	//
	for _, i := range b.free.Items() {
		if i >= b.capacity() || free.Test(i) || b.occupied.Test(i) {
			return corrupt("block %d has invalid free slot %d", b.serial, i)
		}
		//
		free.Set(i)
	}
	//
	return nil
}

// validateRegistry checks that exactly the blocks with spare slots are
// registered.
func (p *Storage[T]) validateRegistry(blocks map[*block[T]]uint) error {
	var (
		expected uint
		count    uint
		err      error
	)
	//
	for b := range blocks {
		if b.state == blockHasFree {
			expected++
		}
	}
	//
	p.registry.each(func(b *block[T]) {
		if _, ok := blocks[b]; err == nil && !ok {
			err = corrupt("registered block %d is not live", b.serial)
		} else if err == nil && b.state != blockHasFree {
			err = corrupt("registered block %d is %s", b.serial, b.state)
		} else if err == nil && b.next != nil && b.next.prev != b {
			err = corrupt("broken registry link after block %d", b.serial)
		}
		//
		count++
	})
	//
	if err != nil {
		return err
	} else if count != p.registry.count {
		return corrupt("registry holds %d blocks, but counts %d", count, p.registry.count)
	} else if count != expected {
		return corrupt("registry holds %d blocks, expected %d", count, expected)
	}
	//
	return nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}
