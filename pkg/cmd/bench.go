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
	"math/rand/v2"

	"github.com/consensys/go-bucket/pkg/bucket"
	"github.com/consensys/go-bucket/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newBenchCommand() *cobra.Command {
	benchCmd := &cobra.Command{
		Use:   "bench [flags]",
		Short: "Run a randomised insert / erase workload.",
		Long: `Run a randomised workload of insertions and erasures against a
	bucket storage, reporting its size and memory layout afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadBenchConfig(cmd)
			if err != nil {
				return err
			}
			//
			stats, err := runBench(cfg)
			if err != nil {
				return err
			}
			//
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "size: %d\ncapacity: %d\nblocks: %d\nfree blocks: %d\n",
				stats.Size, stats.Capacity, stats.Blocks, stats.FreeBlocks)
			//
			return err
		},
	}
	//
	benchCmd.Flags().Uint("ops", 100_000, "number of operations to perform")
	benchCmd.Flags().Uint("block-capacity", bucket.DefaultBlockCapacity, "number of slots per block")
	benchCmd.Flags().Float64("erase-ratio", 0.3, "fraction of operations which are erasures")
	benchCmd.Flags().Uint64("seed", 1, "seed for the workload generator")
	benchCmd.Flags().Bool("shrink", false, "shrink storage to fit once the workload is complete")
	benchCmd.Flags().Bool("check", false, "validate storage after every operation")
	//
	return benchCmd
}

// runBench executes a randomised workload as determined by a given
// configuration, returning the final layout of the storage.
func runBench(cfg benchConfig) (bucket.Stats, error) {
	var (
		rng     = rand.New(rand.NewPCG(cfg.seed, cfg.seed))
		ops     = util.GenerateRandomOps(rng, cfg.ops, cfg.eraseRatio)
		storage = bucket.NewWithConfig[uint](bucket.Config{
			BlockCapacity: cfg.blockCapacity,
			Logger:        log.StandardLogger(),
		})
		// Live elements, such that victims can be picked in O(1).
		live  = make([]bucket.Iterator[uint], 0, cfg.ops)
		stats = util.NewPerfStats()
	)
	//
	for i, op := range ops {
		if op.Erase && len(live) > 0 {
			k := op.Value % uint(len(live))
			storage.Erase(live[k])
			// Swap remove
			live[k] = live[len(live)-1]
			live = live[:len(live)-1]
		} else if !op.Erase {
			live = append(live, storage.Insert(op.Value))
		}
		//
		if cfg.check {
			if err := storage.Validate(); err != nil {
				return storage.Stats(), WithExitCode(ExitDataInvalid, fmt.Errorf("operation %d: %w", i, err))
			}
		}
	}
	//
	stats.Log("Running workload")
	//
	if cfg.shrink {
		stats = util.NewPerfStats()
		storage.ShrinkToFit()
		stats.Log("Shrinking storage")
		//
		if err := storage.Validate(); err != nil {
			return storage.Stats(), WithExitCode(ExitDataInvalid, err)
		}
	}
	//
	return storage.Stats(), nil
}
