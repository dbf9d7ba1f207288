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
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Track_01(t *testing.T) {
	const frames = 10000
	//
	data := make([]int, 0, 2*frames)
	//
	for i := range frames {
		data = append(data, i%100, -(i % 50))
	}
	//
	path := writeWAV(t, "stereo.wav", 44100, 16, 2, data)
	track, err := Load(path)
	require.NoError(t, err)
	//
	assert.Equal(t, 44100, track.SampleRate)
	assert.Equal(t, 2, track.Channels)
	assert.Equal(t, 16, track.BitDepth)
	assert.Equal(t, frames, track.Frames())
	// Decoded in several chunks
	assert.GreaterOrEqual(t, track.chunks.Len(), uint(3))
	//
	left, err := track.Channel(0)
	require.NoError(t, err)
	right, err := track.Channel(1)
	require.NoError(t, err)
	require.Len(t, left, frames)
	require.Len(t, right, frames)
	//
	for i := range frames {
		require.InDelta(t, float64(i%100)/32768, left[i], 1e-12)
		require.InDelta(t, -float64(i%50)/32768, right[i], 1e-12)
	}
	//
	_, err = track.Channel(2)
	assert.ErrorIs(t, err, ErrNoChannel)
	_, err = track.Channel(-1)
	assert.ErrorIs(t, err, ErrNoChannel)
}

func Test_Track_02(t *testing.T) {
	path := writeWAV(t, "mono.WAV", 8000, 24, 1, []int{-8388608, 0, 4194304})
	track, err := Load(path)
	require.NoError(t, err)
	//
	samples, err := track.Channel(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 0.5}, samples)
	//
	_, err = track.Channel(1)
	assert.ErrorIs(t, err, ErrNoChannel)
}

func Test_Track_03(t *testing.T) {
	dir := t.TempDir()
	// Unknown extension
	_, err := Load(filepath.Join(dir, "song.mp3"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	// Missing file
	_, err = Load(filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	// Garbage
	garbage := filepath.Join(dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not audio"), 0o600))
	_, err = Load(garbage)
	assert.ErrorIs(t, err, errInvalidWAV)
	//
	garbage = filepath.Join(dir, "garbage.flac")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not audio"), 0o600))
	_, err = Load(garbage)
	assert.Error(t, err)
}

func Test_Track_04(t *testing.T) {
	path := writeWAV(t, "8bit.wav", 8000, 8, 1, []int{1, 2, 3})
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func Test_Track_05(t *testing.T) {
	track, err := NewTrack(100, 2, 16)
	require.NoError(t, err)
	// Trailing half frame is dropped
	track.Append([]float64{1, 2, 3, 4, 5})
	track.Append([]float64{6})
	track.Append([]float64{7, 8})
	//
	assert.Equal(t, 3, track.Frames())
	//
	left, err := track.Channel(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 7}, left)
}

func Test_DecodePCM_01(t *testing.T) {
	// 16 bit
	assert.Equal(t, []float64{-1, 0.5}, decodePCM([]byte{0x00, 0x80, 0x00, 0x40, 0xff}, 16))
	// 24 bit
	assert.Equal(t, []float64{-1, 0.5, -0.5}, decodePCM([]byte{0, 0, 0x80, 0, 0, 0x40, 0, 0, 0xc0}, 24))
	// 32 bit
	assert.Equal(t, []float64{-1}, decodePCM([]byte{0, 0, 0, 0x80}, 32))
}

func Test_Track_06(t *testing.T) {
	// Layouts which cannot hold samples are rejected up front
	_, err := NewTrack(100, 0, 16)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = NewTrack(100, -1, 16)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = NewTrack(0, 1, 16)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = NewTrack(100, 1, 12)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func Test_Resample_01(t *testing.T) {
	out, err := Resample(nil, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, out)
	// Same rate gives an independent copy
	in := []float64{1, 2}
	out, err = Resample(in, 3, 3)
	require.NoError(t, err)
	out[0] = 5
	assert.Equal(t, 1.0, in[0])
	//
	_, err = Resample(in, 0, 3)
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = Resample(in, 3, -1)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func Test_Resample_02(t *testing.T) {
	// A tone periodic in the input is reproduced exactly at twice the rate
	in := tone(256, 8, 1)
	out, err := Resample(in, 1000, 2000)
	require.NoError(t, err)
	require.Len(t, out, 512)
	//
	for i, v := range tone(512, 8, 1) {
		require.InDelta(t, v, out[i], 1e-9)
	}
}

func Test_Resample_03(t *testing.T) {
	// A component above the new Nyquist frequency is removed rather than
	// folded back into the band.
	in := tone(256, 8, 1)
	//
	for i, v := range tone(256, 100, 0.5) {
		in[i] += v
	}
	//
	out, err := Resample(in, 2000, 1000)
	require.NoError(t, err)
	require.Len(t, out, 128)
	//
	for i, v := range tone(128, 8, 1) {
		require.InDelta(t, v, out[i], 1e-9)
	}
}

func Test_Resample_04(t *testing.T) {
	// Duration is preserved for ratios which are not powers of two
	in := tone(441, 5, 1)
	//
	out, err := Resample(in, 44100, 48000)
	require.NoError(t, err)
	assert.Len(t, out, 480)
	//
	out, err = Resample(in, 48000, 44100)
	require.NoError(t, err)
	assert.Len(t, out, 405)
	// Single sample
	out, err = Resample([]float64{1}, 1, 3)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func Test_Align_01(t *testing.T) {
	a, b, rate, err := Align([]float64{0, 1}, 1, []float64{0, 1, 2, 3}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rate)
	assert.Len(t, a, 4)
	assert.Equal(t, []float64{0, 1, 2, 3}, b)
	//
	a, b, rate, err = Align([]float64{0, 1, 2, 3}, 2, []float64{0, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, rate)
	assert.Equal(t, []float64{0, 1, 2, 3}, a)
	assert.Len(t, b, 4)
	//
	_, _, _, err = Align([]float64{0}, 0, []float64{0}, 1)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

// tone returns n samples of a sine wave completing a given number of cycles.
func tone(n, cycles int, amplitude float64) []float64 {
	samples := make([]float64, n)
	//
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*float64(cycles*i)/float64(n))
	}
	//
	return samples
}

func writeWAV(t *testing.T, name string, rate, bits, channels int, data []int) string {
	t.Helper()
	//
	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	//
	defer file.Close()
	//
	enc := wav.NewEncoder(file, rate, bits, channels, 1)
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: rate, NumChannels: channels},
		SourceBitDepth: bits,
	}
	//
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	//
	return path
}
