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
package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Root
// ============================================================================

func Test_Root_01(t *testing.T) {
	Version = "v1.2.3"
	defer func() { Version = "" }()
	//
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "bucket v1.2.3\n", out)
}

func Test_Root_02(t *testing.T) {
	_, err := run(t, "--no-such-flag")
	assert.Error(t, err)
	assert.Equal(t, ExitArgumentsInvalid, ExitCodeOf(err))
	assert.Equal(t, ExitSuccess, ExitCodeOf(nil))
	assert.Equal(t, ExitDataInvalid, ExitCodeOf(WithExitCode(ExitDataInvalid, errors.New("x"))))
}

// ============================================================================
// Bench
// ============================================================================

func Test_Bench_01(t *testing.T) {
	out, err := run(t, "bench", "--ops", "2000", "--block-capacity", "16", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "size: ")
	assert.Contains(t, out, "capacity: ")
	assert.Contains(t, out, "free blocks: ")
}

func Test_Bench_02(t *testing.T) {
	// Insertions only
	stats, err := runBench(benchConfig{ops: 100, blockCapacity: 8, eraseRatio: 0, seed: 1, check: true})
	require.NoError(t, err)
	assert.Equal(t, uint(100), stats.Size)
	assert.Equal(t, uint(104), stats.Capacity)
	assert.Equal(t, uint(13), stats.Blocks)
	assert.Equal(t, uint(1), stats.FreeBlocks)
}

func Test_Bench_03(t *testing.T) {
	stats, err := runBench(benchConfig{ops: 5000, blockCapacity: 8, eraseRatio: 0.45, seed: 3, shrink: true})
	require.NoError(t, err)
	// Shrinking leaves at most one partially used block
	assert.Equal(t, (stats.Size+7)/8*8, stats.Capacity)
	assert.LessOrEqual(t, stats.FreeBlocks, uint(1))
}

func Test_Bench_04(t *testing.T) {
	_, err := run(t, "bench", "--block-capacity", "0")
	assert.Equal(t, ExitArgumentsInvalid, ExitCodeOf(err))
	//
	_, err = run(t, "bench", "--erase-ratio", "1.5")
	assert.Equal(t, ExitArgumentsInvalid, ExitCodeOf(err))
	//
	_, err = run(t, "bench", "extra")
	assert.Equal(t, ExitArgumentsInvalid, ExitCodeOf(err))
}

func Test_Bench_05(t *testing.T) {
	// Environment variables supply unset flags
	t.Setenv("BUCKET_OPS", "10")
	t.Setenv("BUCKET_ERASE_RATIO", "0")
	//
	out, err := run(t, "bench")
	require.NoError(t, err)
	assert.Contains(t, out, "size: 10\n")
	// But flags take precedence
	out, err = run(t, "bench", "--ops", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "size: 20\n")
}

func Test_Bench_06(t *testing.T) {
	config := filepath.Join(t.TempDir(), "bucket.yaml")
	require.NoError(t, os.WriteFile(config, []byte("ops: 30\nerase-ratio: 0\nblock-capacity: 4\n"), 0o600))
	//
	out, err := run(t, "bench", "--config", config)
	require.NoError(t, err)
	assert.Contains(t, out, "size: 30\ncapacity: 32\n")
	//
	_, err = run(t, "bench", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ExitCannotOpenFile, ExitCodeOf(err))
}

// ============================================================================
// Delay
// ============================================================================

func Test_Delay_01(t *testing.T) {
	var (
		a = impulse(1000, 300, 1)
		b = impulse(1000, 80, 1)
	)
	//
	out, err := run(t, "delay", writeWAV(t, "a.wav", 8000, 1, a), writeWAV(t, "b.wav", 8000, 1, b))
	require.NoError(t, err)
	assert.Equal(t, "delta: 220 samples\nsample rate: 8000 Hz\ndelta time: 27 ms\n", out)
}

func Test_Delay_02(t *testing.T) {
	var (
		left  = impulse(500, 10, 1)
		right = impulse(500, 60, 1)
		data  = make([]int, 0, 1000)
	)
	// Interleave channels
	for i := range left {
		data = append(data, left[i], right[i])
	}
	//
	out, err := run(t, "delay", writeWAV(t, "stereo.wav", 1000, 2, data))
	require.NoError(t, err)
	assert.Equal(t, "delta: -50 samples\nsample rate: 1000 Hz\ndelta time: -50 ms\n", out)
}

func Test_Delay_03(t *testing.T) {
	mono := writeWAV(t, "mono.wav", 8000, 1, impulse(100, 1, 1))
	// Single mono file has no second channel
	_, err := run(t, "delay", mono)
	assert.Equal(t, ExitFormatInvalid, ExitCodeOf(err))
	// Wrong number of arguments
	_, err = run(t, "delay")
	assert.Equal(t, ExitArgumentsInvalid, ExitCodeOf(err))
	_, err = run(t, "delay", mono, mono, mono)
	assert.Equal(t, ExitArgumentsInvalid, ExitCodeOf(err))
	// Unreadable file
	_, err = run(t, "delay", mono, filepath.Join(t.TempDir(), "missing.wav"))
	assert.Equal(t, ExitFormatInvalid, ExitCodeOf(err))
	// Unsupported file
	_, err = run(t, "delay", mono, "song.ogg")
	assert.Equal(t, ExitUnsupported, ExitCodeOf(err))
}

func Test_Delay_04(t *testing.T) {
	// Different sample rates are brought to the higher rate
	var (
		a = impulse(1000, 200, 1)
		b = impulse(2000, 300, 1)
	)
	//
	out, err := run(t, "delay", writeWAV(t, "a.wav", 4000, 1, a), writeWAV(t, "b.wav", 8000, 1, b))
	require.NoError(t, err)
	assert.Equal(t, "delta: 100 samples\nsample rate: 8000 Hz\ndelta time: 12 ms\n", out)
}

// ============================================================================
// Helpers
// ============================================================================

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	//
	var (
		out    bytes.Buffer
		errOut bytes.Buffer
		root   = NewRootCommand()
	)
	//
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	//
	return out.String(), err
}

// impulse constructs a signal of n samples which is zero except at a given
// position.
func impulse(n, at, channels int) []int {
	data := make([]int, n*channels)
	data[at*channels] = 16384
	//
	return data
}

func writeWAV(t *testing.T, name string, rate, channels int, data []int) string {
	t.Helper()
	//
	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	//
	defer file.Close()
	//
	enc := wav.NewEncoder(file, rate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: rate, NumChannels: channels},
		SourceBitDepth: 16,
	}
	//
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	//
	return path
}
