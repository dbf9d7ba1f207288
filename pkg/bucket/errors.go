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
package bucket

import "errors"

var (
	// ErrConstruct indicates that producing the value for an insertion failed.
	// The storage is left exactly as it was before the call.
	ErrConstruct = errors.New("bucket: element construction failed")

	// ErrCopy indicates that copying an element during Clone or Assign failed.
	// Any partially built copy has been released.
	ErrCopy = errors.New("bucket: element copy failed")

	// ErrCorrupt indicates that a consistency check found a broken invariant.
	ErrCorrupt = errors.New("bucket: invariant violated")
)
