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
package delay

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Delay_01(t *testing.T) {
	_, err := Measure(nil, []float64{1})
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = Measure([]float64{1}, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func Test_Delay_02(t *testing.T) {
	for _, lag := range []int{0, 1, 5, 17, -3, -40} {
		a := make([]float64, 128)
		b := make([]float64, 128)
		b[50] = 1
		a[50+lag] = 1
		//
		got, err := Measure(a, b)
		require.NoError(t, err)
		assert.Equal(t, lag, got)
	}
}

func Test_Delay_03(t *testing.T) {
	var (
		rng   = rand.New(rand.NewPCG(42, 1))
		noise = make([]float64, 1000)
	)
	//
	for i := range noise {
		noise[i] = rng.Float64()*2 - 1
	}
	// Delayed copy of the noise
	delayed := append(make([]float64, 37), noise...)
	//
	got, err := Measure(delayed, noise)
	require.NoError(t, err)
	assert.Equal(t, 37, got)
	//
	got, err = Measure(noise, delayed)
	require.NoError(t, err)
	assert.Equal(t, -37, got)
}

func Test_Delay_04(t *testing.T) {
	r := NewResult(441, 44100)
	assert.Equal(t, 10, r.Millis)
	assert.Equal(t, "delta: 441 samples\nsample rate: 44100 Hz\ndelta time: 10 ms\n", r.String())
	//
	r = NewResult(-48, 48000)
	assert.Equal(t, -1, r.Millis)
}

func Test_Delay_05(t *testing.T) {
	assert.Equal(t, 1, nextPowerOf2(0))
	assert.Equal(t, 1, nextPowerOf2(1))
	assert.Equal(t, 8, nextPowerOf2(5))
	assert.Equal(t, 1024, nextPowerOf2(1024))
}
