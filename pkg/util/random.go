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
package util

import (
	"math"
	"math/rand/v2"
)

// GenerateRandomInputs generates n random inputs in the range 0..m using a
// given source of randomness.
func GenerateRandomInputs(rng *rand.Rand, n, m uint) []uint {
	items := make([]uint, n)

	for i := uint(0); i < n; i++ {
		items[i] = rng.UintN(m)
	}

	return items
}

// Op is a single step of a randomised insert / erase workload.
type Op struct {
	// Erase indicates removal rather than insertion.
	Erase bool
	// Arbitrary value.  For insertions this is the value inserted, for
	// erasures it selects the victim (modulo the current size).
	Value uint
}

// GenerateRandomOps generates n workload steps, each of which is an erasure
// with probability eraseRatio.  A ratio outside [0,1] is clamped.
func GenerateRandomOps(rng *rand.Rand, n uint, eraseRatio float64) []Op {
	var (
		ratio  = min(max(eraseRatio, 0), 1)
		values = GenerateRandomInputs(rng, n, math.MaxUint)
		ops    = make([]Op, n)
	)

	for i, v := range values {
		ops[i] = Op{rng.Float64() < ratio, v}
	}

	return ops
}
