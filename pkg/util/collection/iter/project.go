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
package iter

// projectIterator maps each item of a source iterator through a function as it
// is visited.  Nothing is computed ahead of time, hence the function is applied
// at most once per item visited.
type projectIterator[S, T any] struct {
	source Iterator[S]
	fn     func(S) T
}

// NewProjectIterator returns an iterator over fn(x) for every item x of a given
// source iterator.  Advancing the result advances the source.
func NewProjectIterator[S, T any](source Iterator[S], fn func(S) T) Iterator[T] {
	return &projectIterator[S, T]{source, fn}
}

//nolint:revive
func (p *projectIterator[S, T]) HasNext() bool {
	return p.source.HasNext()
}

//nolint:revive
func (p *projectIterator[S, T]) Next() T {
	return p.fn(p.source.Next())
}

//nolint:revive
func (p *projectIterator[S, T]) Append(other Iterator[T]) Iterator[T] {
	return NewAppendIterator(p, other)
}

// Clone shares the mapping function but not the cursor.
//
//nolint:revive
func (p *projectIterator[S, T]) Clone() Iterator[T] {
	return &projectIterator[S, T]{p.source.Clone(), p.fn}
}

// Collect sizes the result from the source before draining it.
//
//nolint:revive
func (p *projectIterator[S, T]) Collect() []T {
	items := make([]T, 0, p.source.Count())
	//
	ForEach(p.source, func(item S) {
		items = append(items, p.fn(item))
	})
	//
	return items
}

// Count is that of the source, since mapping neither adds nor drops items.
//
//nolint:revive
func (p *projectIterator[S, T]) Count() uint {
	return p.source.Count()
}

// Find tests the mapped value of each item, but reports its position in the
// source.
//
//nolint:revive
func (p *projectIterator[S, T]) Find(predicate Predicate[T]) (uint, bool) {
	return p.source.Find(func(item S) bool {
		return predicate(p.fn(item))
	})
}

// Nth maps only the item selected.
//
//nolint:revive
func (p *projectIterator[S, T]) Nth(n uint) T {
	return p.fn(p.source.Nth(n))
}
