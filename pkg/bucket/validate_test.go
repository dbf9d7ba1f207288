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
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Validate_01(t *testing.T) {
	check_Corrupt(t, func(s *Storage[uint]) { s.size++ })
	check_Corrupt(t, func(s *Storage[uint]) { s.capacity += 4 })
	check_Corrupt(t, func(s *Storage[uint]) { s.blocks++ })
}

func Test_Validate_02(t *testing.T) {
	// Broken back link
	check_Corrupt(t, func(s *Storage[uint]) { s.sentinel.next.next.prev = s.sentinel })
	// Unmarked element
	check_Corrupt(t, func(s *Storage[uint]) {
		n := s.sentinel.next
		n.owner.occupied.Clear(n.index)
	})
	// Occupied slot on free stack
	check_Corrupt(t, func(s *Storage[uint]) {
		n := s.sentinel.prev
		n.owner.free.Push(n.index)
	})
}

func Test_Validate_03(t *testing.T) {
	// Block with spare slots missing from registry
	check_Corrupt(t, func(s *Storage[uint]) {
		s.registry.remove(s.sentinel.prev.owner)
	})
	// Stale state
	check_Corrupt(t, func(s *Storage[uint]) {
		s.sentinel.next.owner.state = blockHasFree
	})
	// Empty block awaiting reclamation
	check_Corrupt(t, func(s *Storage[uint]) {
		s.registry.enqueue(s.sentinel.next.owner)
	})
}

func Test_Logging_01(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	//
	s := NewWithConfig[uint](Config{BlockCapacity: 2, Logger: logger})
	fill(s, 0, 3)
	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, "allocated block", hook.LastEntry().Message)
	assert.Equal(t, uint64(1), hook.LastEntry().Data["block"])
	// Releasing the second block
	s.Erase(find(s, 2))
	assert.Equal(t, "released block", hook.LastEntry().Message)
	//
	s.ShrinkToFit()
	assert.Equal(t, "shrunk storage", hook.LastEntry().Message)
	assert.Equal(t, uint(2), hook.LastEntry().Data["after"])
	//
	s.Clear()
	assert.Equal(t, "cleared", hook.LastEntry().Message)
	assert.Equal(t, log.DebugLevel, hook.LastEntry().Level)
}

// check_Corrupt builds a storage spanning several blocks (the last of which
// has spare slots), breaks it in some way, and checks this is detected.
func check_Corrupt(t *testing.T, breaker func(*Storage[uint])) {
	t.Helper()
	//
	s := NewWithCapacity[uint](4)
	fill(s, 0, 10)
	require.NoError(t, s.Validate())
	//
	breaker(s)
	assert.ErrorIs(t, s.Validate(), ErrCorrupt)
}
