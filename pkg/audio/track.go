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
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/consensys/go-bucket/pkg/bucket"
	"github.com/consensys/go-bucket/pkg/util/collection/iter"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrUnsupportedFormat indicates a file whose container, bit depth or
	// channel layout cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrNoChannel indicates a request for a channel which a track lacks.
	ErrNoChannel = errors.New("no such channel")
)

// chunkFrames is the number of frames decoded at a time.
const chunkFrames = 4096

// Track is a decoded audio stream.  Samples are held as a sequence of chunks,
// each containing whole frames of interleaved samples normalised to [-1,1].
type Track struct {
	// Samples per second
	SampleRate int
	// Number of interleaved channels
	Channels int
	// Bit depth of the source
	BitDepth int
	// Total number of frames
	frames int
	// Chunks in stream order
	chunks *bucket.Storage[[]float64]
}

// NewTrack constructs an empty track, failing if the given layout is not one
// which can be decoded.
func NewTrack(sampleRate, channels, bitDepth int) (*Track, error) {
	if err := checkFormat(sampleRate, channels, bitDepth); err != nil {
		return nil, err
	}
	//
	return &Track{sampleRate, channels, bitDepth, 0, bucket.New[[]float64]()}, nil
}

// Load decodes the audio file at a given path, choosing a decoder based on the
// file extension.
func Load(path string) (*Track, error) {
	var (
		track *Track
		ext   = strings.ToLower(filepath.Ext(path))
	)
	//
	if ext != ".wav" && ext != ".flac" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	//
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	//
	defer file.Close()
	//
	if ext == ".wav" {
		track, err = decodeWAV(file)
	} else {
		track, err = decodeFLAC(file)
	}
	//
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	//
	log.WithFields(log.Fields{
		"rate":     track.SampleRate,
		"channels": track.Channels,
		"bits":     track.BitDepth,
		"frames":   track.frames,
		"chunks":   track.chunks.Len(),
	}).Debugf("decoded %s", path)
	//
	return track, nil
}

// Append adds interleaved samples to the end of this track.  Any trailing
// samples which do not form a whole frame are discarded.
func (p *Track) Append(samples []float64) {
	n := len(samples) / p.Channels
	//
	if n > 0 {
		p.chunks.Insert(slices.Clone(samples[:n*p.Channels]))
		p.frames += n
	}
}

// Frames returns the number of frames (i.e. samples per channel).
func (p *Track) Frames() int {
	return p.frames
}

// Channel extracts the samples of a single channel.
func (p *Track) Channel(channel int) ([]float64, error) {
	if channel < 0 || channel >= p.Channels {
		return nil, fmt.Errorf("%w: %d (track has %d)", ErrNoChannel, channel, p.Channels)
	}
	//
	var (
		samples = make([]float64, 0, p.frames)
		parts   = iter.NewProjectIterator(p.chunks.Enumerate(), func(chunk []float64) []float64 {
			return deinterleave(chunk, channel, p.Channels)
		})
	)
	//
	iter.ForEach(parts, func(part []float64) {
		samples = append(samples, part...)
	})
	//
	return samples, nil
}

func deinterleave(chunk []float64, channel, channels int) []float64 {
	samples := make([]float64, 0, len(chunk)/channels)
	//
	for i := channel; i < len(chunk); i += channels {
		samples = append(samples, chunk[i])
	}
	//
	return samples
}

// checkFormat rejects layouts which are not decoded.
func checkFormat(sampleRate, channels, bitDepth int) error {
	if sampleRate < 1 {
		return fmt.Errorf("%w: %d Hz", ErrUnsupportedFormat, sampleRate)
	} else if channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}
	//
	switch bitDepth {
	case 16, 24, 32:
		return nil
	}
	//
	return fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
}

// scale returns the factor which normalises samples of a given bit depth.
func scale(bitDepth int) float64 {
	return 1 / float64(int64(1)<<(bitDepth-1))
}
