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

import "fmt"

// Clone returns a deep copy of this storage: every element is copied (using
// Copier where implemented) in order into a fresh storage with the same
// configuration.  No block or slot is shared with the original.  If copying
// an element fails, the partial copy is released and the error returned.
func (p *Storage[T]) Clone() (*Storage[T], error) {
	var (
		q  = NewWithConfig[T](p.Config())
		ok = false
	)
	// Tear down partial copies, whether we fail by error or by panic.
	defer func() {
		if !ok {
			q.Clear()
		}
	}()
	//
	for s := p.sentinel.next; s != p.sentinel; s = s.next {
		item, err := copyValue(*s.box)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrCopy, q.size, err)
		}
		//
		q.Insert(item)
	}
	//
	ok = true
	//
	return q, nil
}

// Assign replaces the contents of this storage with a deep copy of another.
// The copy is built before anything is released, so on failure this storage
// is unchanged.  Assigning a storage to itself does nothing.
func (p *Storage[T]) Assign(other *Storage[T]) error {
	if p == other {
		return nil
	}
	//
	q, err := other.Clone()
	if err != nil {
		return err
	}
	//
	p.Clear()
	*p = *q
	//
	return nil
}

// MoveFrom releases the contents of this storage and takes over those of
// another in O(1).  The other storage is left empty (no elements, no blocks)
// but remains usable with its original configuration.  Moving a storage into
// itself does nothing.
func (p *Storage[T]) MoveFrom(other *Storage[T]) {
	if p == other {
		return
	}
	//
	p.Clear()
	p.take(other)
}

// Move transfers the contents of this storage into a newly constructed one in
// O(1), leaving this storage empty but usable.
func (p *Storage[T]) Move() *Storage[T] {
	var q Storage[T]
	//
	q.take(p)
	//
	return &q
}

// take adopts every field of another storage, and then reinitialises it.
func (p *Storage[T]) take(other *Storage[T]) {
	cfg := other.Config()
	*p = *other
	other.init(cfg)
}
