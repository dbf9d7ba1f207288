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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables which override flags.  For
// example, BUCKET_BLOCK_CAPACITY sets --block-capacity.
const EnvPrefix = "BUCKET"

// loadSettings resolves the flags of a command against (in increasing order of
// precedence) their defaults, the config file given by --config, environment
// variables, and the command line.
func loadSettings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	//
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}
	//
	if path := GetString(cmd, "config"); path != "" {
		v.SetConfigFile(path)
		//
		if err := v.ReadInConfig(); err != nil {
			return nil, WithExitCode(ExitCannotOpenFile, fmt.Errorf("failed to read config file: %w", err))
		}
	}
	//
	return v, nil
}

// benchConfig captures the parameters of a benchmark run.
type benchConfig struct {
	ops           uint
	blockCapacity uint
	eraseRatio    float64
	seed          uint64
	shrink        bool
	check         bool
}

func loadBenchConfig(cmd *cobra.Command) (benchConfig, error) {
	v, err := loadSettings(cmd)
	if err != nil {
		return benchConfig{}, err
	}
	//
	cfg := benchConfig{
		ops:           v.GetUint("ops"),
		blockCapacity: v.GetUint("block-capacity"),
		eraseRatio:    v.GetFloat64("erase-ratio"),
		seed:          v.GetUint64("seed"),
		shrink:        v.GetBool("shrink"),
		check:         v.GetBool("check"),
	}
	//
	return cfg, cfg.validate()
}

func (c benchConfig) validate() error {
	if c.blockCapacity == 0 {
		return WithExitCode(ExitArgumentsInvalid, fmt.Errorf("block-capacity must be at least 1"))
	} else if c.eraseRatio < 0 || c.eraseRatio > 1 {
		return WithExitCode(ExitArgumentsInvalid, fmt.Errorf("erase-ratio must be between 0 and 1"))
	}
	//
	return nil
}
