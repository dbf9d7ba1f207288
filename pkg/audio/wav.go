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
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var errInvalidWAV = errors.New("not a valid WAV file")

func decodeWAV(r io.ReadSeeker) (*Track, error) {
	decoder := wav.NewDecoder(r)
	decoder.ReadInfo()
	//
	if !decoder.IsValidFile() {
		return nil, errInvalidWAV
	}
	//
	var (
		rate     = int(decoder.SampleRate)
		channels = int(decoder.NumChans)
		bits     = int(decoder.BitDepth)
	)
	//
	track, err := NewTrack(rate, channels, bits)
	if err != nil {
		return nil, err
	}
	//
	var (
		factor = scale(bits)
		carry  []float64
		buf    = &goaudio.IntBuffer{
			Data:   make([]int, chunkFrames*channels),
			Format: &goaudio.Format{SampleRate: rate, NumChannels: channels},
		}
	)
	//
	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, fmt.Errorf("decoding WAV: %w", err)
		} else if n == 0 {
			break
		}
		// A short read can split a frame, in which case its head is carried
		// over into the next chunk.
		chunk := carry
		//
		for _, sample := range buf.Data[:n] {
			chunk = append(chunk, float64(sample)*factor)
		}
		//
		whole := len(chunk) / channels * channels
		track.Append(chunk[:whole])
		carry = append([]float64(nil), chunk[whole:]...)
	}
	//
	return track, nil
}
