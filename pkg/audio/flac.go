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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tphakala/flac"
)

func decodeFLAC(file *os.File) (*Track, error) {
	decoder, err := flac.NewDecoder(file)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	//
	track, err := NewTrack(decoder.SampleRate, decoder.NChannels, decoder.BitsPerSample)
	if err != nil {
		return nil, err
	}
	//
	for {
		frame, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding FLAC: %w", err)
		}
		//
		track.Append(decodePCM(frame, decoder.BitsPerSample))
	}
	//
	return track, nil
}

// decodePCM converts little-endian signed PCM bytes into normalised samples.
// Trailing bytes which do not form a whole sample are ignored.
func decodePCM(data []byte, bitDepth int) []float64 {
	var (
		width   = bitDepth / 8
		factor  = scale(bitDepth)
		samples = make([]float64, 0, len(data)/width)
	)
	//
	for i := 0; i+width <= len(data); i += width {
		var sample int32
		//
		switch bitDepth {
		case 16:
			sample = int32(int16(binary.LittleEndian.Uint16(data[i:])))
		case 24:
			// Sign extend from bit 23
			sample = (int32(data[i]) | int32(data[i+1])<<8 | int32(data[i+2])<<16) << 8 >> 8
		case 32:
			sample = int32(binary.LittleEndian.Uint32(data[i:]))
		}
		//
		samples = append(samples, float64(sample)*factor)
	}
	//
	return samples
}
