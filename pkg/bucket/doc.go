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

// Package bucket provides a segmented, insertion-ordered container whose
// elements never move once inserted.
//
// Memory is allocated in blocks of a fixed number of slots.  Every element
// lives in one slot of one block, and all live elements are threaded onto a
// single doubly-linked list anchored at a sentinel.  Iteration therefore
// follows insertion order irrespective of which block an element landed in.
//
// Erasing an element returns its slot to the owning block's free stack.  A
// block with at least one free slot sits on the free-block registry, and
// insertion always prefers the block on top of that registry before
// allocating a new one.  A block whose last element is erased is released
// before the erasing call returns, so Capacity() only ever counts blocks
// which hold at least one element.
//
// Iterators obtained from a Storage remain valid, and keep referring to the
// same element, until that element is erased, the storage is cleared, or
// ShrinkToFit is called.  Swap and MoveFrom transfer ownership without
// touching any slot, so iterators survive them as well.
//
// A Storage is not safe for concurrent use.
package bucket
