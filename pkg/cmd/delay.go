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
	"errors"
	"fmt"

	"github.com/consensys/go-bucket/pkg/audio"
	"github.com/consensys/go-bucket/pkg/delay"
	"github.com/spf13/cobra"
)

func newDelayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delay file [file]",
		Short: "Measure the delay between two audio signals.",
		Long: `Measure the delay between two audio signals by cross-correlation.
	Given one file, its first two channels are compared.  Given two files, the
	first channel of each is compared.  WAV and FLAC files are supported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 2 {
				return usageError(cmd, "expected one or two files")
			}
			//
			result, err := measureDelay(args)
			if err != nil {
				return err
			}
			//
			_, err = fmt.Fprint(cmd.OutOrStdout(), result)
			//
			return err
		},
	}
}

// measureDelay loads the signals to compare from one or two files, and
// measures the delay between them.
func measureDelay(paths []string) (delay.Result, error) {
	var tracks [2]*audio.Track
	//
	for i := range tracks {
		var err error
		// With a single file, both signals come from it.
		if i < len(paths) {
			tracks[i], err = audio.Load(paths[i])
		} else {
			tracks[i] = tracks[0]
		}
		//
		if err != nil {
			return delay.Result{}, loadError(err)
		}
	}
	// Second channel of a single file, otherwise first channel of each
	a, err := tracks[0].Channel(0)
	if err != nil {
		return delay.Result{}, WithExitCode(ExitFormatInvalid, err)
	}
	//
	b, err := tracks[1].Channel(len(paths) % 2)
	if err != nil {
		return delay.Result{}, WithExitCode(ExitFormatInvalid, fmt.Errorf("%s: %w", paths[0], err))
	}
	//
	a, b, rate, err := audio.Align(a, tracks[0].SampleRate, b, tracks[1].SampleRate)
	if err != nil {
		return delay.Result{}, WithExitCode(ExitFormatInvalid, err)
	}
	//
	lag, err := delay.Measure(a, b)
	if errors.Is(err, delay.ErrPlan) {
		return delay.Result{}, WithExitCode(ExitNotEnoughMemory, err)
	} else if err != nil {
		return delay.Result{}, WithExitCode(ExitDataInvalid, err)
	}
	//
	return delay.NewResult(lag, rate), nil
}

func loadError(err error) error {
	if errors.Is(err, audio.ErrUnsupportedFormat) {
		return WithExitCode(ExitUnsupported, err)
	}
	//
	return WithExitCode(ExitFormatInvalid, err)
}
