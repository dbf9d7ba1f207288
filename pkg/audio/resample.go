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
package audio

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrInvalidRate indicates a sample rate which is not positive.
var ErrInvalidRate = errors.New("invalid sample rate")

// Resample converts samples taken at one rate into samples at another, such
// that the result spans the same duration as the input.  The signal is
// resampled in the frequency domain: components above the lower of the two
// Nyquist frequencies are discarded, and the band-limited signal is evaluated
// on an oversampled power-of-two grid before being interpolated onto the
// output positions.
func Resample(samples []float64, from, to int) ([]float64, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("%w: %d Hz to %d Hz", ErrInvalidRate, from, to)
	} else if from == to || len(samples) == 0 {
		return append([]float64(nil), samples...), nil
	}
	//
	var (
		length = int(int64(len(samples)) * int64(to) / int64(from))
		size   = nextPowerOf2(max(len(samples), 2))
		grid   = nextPowerOf2(max(int((int64(size)*int64(to)+int64(from)-1)/int64(from)), 2))
	)
	//
	padded := make([]complex128, size)
	//
	for i, v := range samples {
		padded[i] = complex(v, 0)
	}
	//
	spectrum, err := transform(padded, false)
	if err != nil {
		return nil, err
	}
	//
	dense, err := transform(bandLimit(spectrum, grid, min(from, to), from), true)
	if err != nil {
		return nil, err
	}
	// Map output positions onto the dense grid
	var (
		result = make([]float64, length)
		step   = float64(from) * float64(grid) / (float64(to) * float64(size))
		gain   = float64(grid) / float64(size)
	)
	//
	for i := range result {
		pos := float64(i) * step
		index := int(pos)
		//
		if index+1 >= grid {
			result[i] = gain * real(dense[grid-1])
			continue
		}
		//
		frac := pos - float64(index)
		result[i] = gain * (real(dense[index]) + frac*(real(dense[index+1])-real(dense[index])))
	}
	//
	return result, nil
}

// bandLimit builds a spectrum of a given size from that of the input, keeping
// only those bins below half the cutoff rate.
func bandLimit(spectrum []complex128, size, cutoff, rate int) []complex128 {
	var (
		n      = len(spectrum)
		result = make([]complex128, size)
		limit  = min(n*cutoff/(2*rate), size/2)
	)
	//
	for k := range limit {
		result[k] = spectrum[k]
		//
		if k > 0 {
			result[size-k] = spectrum[n-k]
		}
	}
	// Nyquist bin of the input is split across both halves when upsampling
	if limit == n/2 && size > n {
		result[limit] += spectrum[limit] / 2
		result[size-limit] += spectrum[limit] / 2
	}
	//
	return result
}

// transform applies a forward or inverse FFT whose size is that of the input.
func transform(input []complex128, inverse bool) ([]complex128, error) {
	plan, err := algofft.NewPlan64(len(input))
	if err != nil {
		return nil, fmt.Errorf("resample: %d point FFT: %w", len(input), err)
	}
	//
	output := make([]complex128, len(input))
	//
	if inverse {
		err = plan.Inverse(output, input)
	} else {
		err = plan.Forward(output, input)
	}
	//
	if err != nil {
		return nil, fmt.Errorf("resample: FFT failed: %w", err)
	}
	//
	return output, nil
}

// Align brings two tracks' worth of samples to a common rate, upsampling
// whichever has the lower rate.  It returns the resampled signals and the
// common rate.
func Align(a []float64, rateA int, b []float64, rateB int) ([]float64, []float64, int, error) {
	var err error
	//
	switch {
	case rateA < rateB:
		a, err = Resample(a, rateA, rateB)
		return a, b, rateB, err
	case rateB < rateA:
		b, err = Resample(b, rateB, rateA)
		return a, b, rateA, err
	}
	//
	return a, b, rateA, nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}

	return p
}
