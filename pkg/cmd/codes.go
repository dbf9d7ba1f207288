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

import "errors"

// Process exit codes.
const (
	ExitSuccess          = 0
	ExitCannotOpenFile   = 1
	ExitNotEnoughMemory  = 2
	ExitDataInvalid      = 3
	ExitArgumentsInvalid = 4
	ExitFormatInvalid    = 5
	ExitUnsupported      = 20
)

// exitError associates an error with the exit code it should produce.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// WithExitCode tags an error with the exit code it should produce.
func WithExitCode(code int, err error) error {
	return &exitError{code, err}
}

// ExitCodeOf determines the exit code for a given error.  Errors which have
// not been tagged arise from parsing the command line.
func ExitCodeOf(err error) int {
	var e *exitError
	//
	if err == nil {
		return ExitSuccess
	} else if errors.As(err, &e) {
		return e.code
	}
	//
	return ExitArgumentsInvalid
}
