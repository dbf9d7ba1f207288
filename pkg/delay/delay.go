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
	"errors"
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

var (
	// ErrEmptyInput indicates that one of the signals has no samples.
	ErrEmptyInput = errors.New("delay: empty input")
	// ErrPlan indicates that no FFT plan could be constructed for the
	// signals, typically because they are too large.
	ErrPlan = errors.New("delay: failed to create FFT plan")
)

// Result describes the measured offset between two signals.
type Result struct {
	// Offset in samples.  Positive means the first signal lags the second.
	Samples int
	// Common sample rate of both signals
	SampleRate int
	// Offset in milliseconds, truncated towards zero
	Millis int
}

// NewResult constructs a result for a given lag at a given sample rate.
func NewResult(samples, sampleRate int) Result {
	return Result{samples, sampleRate, samples * 1000 / sampleRate}
}

func (r Result) String() string {
	return fmt.Sprintf("delta: %d samples\nsample rate: %d Hz\ndelta time: %d ms\n", r.Samples, r.SampleRate, r.Millis)
}

// Measure determines the lag (in samples) of a relative to b, as the peak of
// their circular cross-correlation.  Both signals are zero padded to the same
// power-of-two length n, and the lag returned lies within (-n/2, n/2].
func Measure(a, b []float64) (int, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrEmptyInput
	}
	//
	n := nextPowerOf2(max(len(a), len(b)))
	//
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPlan, err)
	}
	//
	aFreq, err := forward(plan, a, n)
	if err != nil {
		return 0, err
	}
	//
	bFreq, err := forward(plan, b, n)
	if err != nil {
		return 0, err
	}
	// Cross spectrum
	for i := range aFreq {
		aFreq[i] *= cmplx.Conj(bFreq[i])
	}
	//
	corr := make([]complex128, n)
	if err := plan.Inverse(corr, aFreq); err != nil {
		return 0, fmt.Errorf("delay: inverse FFT failed: %w", err)
	}
	//
	peak := 0
	//
	for i := 1; i < n; i++ {
		if real(corr[i]) > real(corr[peak]) {
			peak = i
		}
	}
	//
	if peak > n/2 {
		peak -= n
	}
	//
	return peak, nil
}

func forward(plan *algofft.Plan[complex128], samples []float64, n int) ([]complex128, error) {
	var (
		padded = make([]complex128, n)
		freq   = make([]complex128, n)
	)
	//
	for i, v := range samples {
		padded[i] = complex(v, 0)
	}
	//
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("delay: forward FFT failed: %w", err)
	}
	//
	return freq, nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}

	return p
}
