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
package stack

// Stack represents a reusable LIFO stack which is implemented using an array.
// The zero value is an empty stack ready for use.
type Stack[T any] struct {
	items []T
}

// NewStackWithCapacity returns an empty stack whose backing array can hold n
// items before any reallocation is required.
func NewStackWithCapacity[T any](n uint) *Stack[T] {
	return &Stack[T]{make([]T, 0, n)}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Push a new item onto the stack
func (p *Stack[T]) Push(item T) {
	p.items = append(p.items, item)
}

// PushReversed pushes zero or more items in reverse order onto the stack, such
// that the first item given ends up on top.
func (p *Stack[T]) PushReversed(items []T) {
	var n = len(items) - 1
	//
	for i := range len(items) {
		p.items = append(p.items, items[n-i])
	}
}

// Pop the last item off the stack
func (p *Stack[T]) Pop() T {
	var (
		n    = len(p.items)
		zero T
	)
	//
	if n == 0 {
		panic("cannot pop from empty stack")
	}
	// Get last item
	item := p.items[n-1]
	// Clear the vacated cell so it holds no reference.
	p.items[n-1] = zero
	p.items = p.items[:n-1]
	// Done
	return item
}

// Items returns the items on this stack ordered from bottom to top.  The
// returned slice must not be modified.
func (p *Stack[T]) Items() []T {
	return p.items
}
