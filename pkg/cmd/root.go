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
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// NewRootCommand constructs the base command along with all of its
// subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bucket",
		Short:         "Toolbox for segmented bucket storage.",
		Long:          "Benchmarks for segmented bucket storage, and an audio delay meter built on it.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd.ErrOrStderr(), GetFlag(cmd, "verbose"))
		},
		Run: func(cmd *cobra.Command, args []string) {
			if GetFlag(cmd, "version") {
				fmt.Fprintln(cmd.OutOrStdout(), "bucket", version())
			} else {
				_ = cmd.Usage()
			}
		},
	}
	//
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("config", "", "read settings from a YAML file")
	//
	rootCmd.AddCommand(newBenchCommand())
	rootCmd.AddCommand(newDelayCommand())
	//
	return rootCmd
}

// Execute runs the root command, and exits with a status code reflecting the
// outcome.  This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		log.Error(err)
		os.Exit(ExitCodeOf(err))
	}
}

func version() string {
	if Version != "" {
		// Built via "make"
		return Version
	} else if info, ok := debug.ReadBuildInfo(); ok {
		// Built via "go install"
		return info.Main.Version
	}
	// Unknown, perhaps "go run"
	return "(unknown version)"
}

// configureLogging sets the level of the standard logger, and only colours its
// output when writing to a terminal.
func configureLogging(out io.Writer, verbose bool) {
	var colours = false
	//
	if f, ok := out.(*os.File); ok {
		colours = term.IsTerminal(int(f.Fd()))
	}
	//
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{
		ForceColors:   colours,
		DisableColors: !colours,
		FullTimestamp: true,
	})
	//
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// usageError reports a command invoked with the wrong arguments.
func usageError(cmd *cobra.Command, msg string) error {
	return WithExitCode(ExitArgumentsInvalid, errors.New(msg+"\n"+cmd.UsageString()))
}
