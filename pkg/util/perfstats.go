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
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats provides a snapshot of memory allocation at a given point in time.
type PerfStats struct {
	// Starting time
	startTime time.Time
	// Starting total memory allocation
	startMem uint64
	// Starting number of gc events
	startGc uint32
}

// PerfDelta captures the difference between two snapshots.
type PerfDelta struct {
	// Elapsed wall-clock time
	Elapsed time.Duration
	// Bytes allocated in between
	Allocated uint64
	// Number of gc events in between
	GcEvents uint32
	// Bytes currently allocated on the heap
	Heap uint64
}

// NewPerfStats creates a new snapshot of the current amount of memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats

	startTime := time.Now()

	runtime.ReadMemStats(&m)

	return &PerfStats{startTime, m.TotalAlloc, m.NumGC}
}

// Delta returns the difference between the state now and as it was when the
// PerfStats object was created.
func (p *PerfStats) Delta() PerfDelta {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)

	return PerfDelta{time.Since(p.startTime), m.TotalAlloc - p.startMem, m.NumGC - p.startGc, m.HeapAlloc}
}

// Log logs the difference between the state now and as it was when the PerfStats object was created.
func (p *PerfStats) Log(prefix string) {
	d := p.Delta()

	log.WithFields(log.Fields{
		"time":  d.Elapsed.Round(time.Microsecond),
		"alloc": d.Allocated / 1024 / 1024,
		"gc":    d.GcEvents,
		"heap":  d.Heap / 1024 / 1024,
	}).Debugf("%s took %0.2fs using %v Mb (%v GC events)", prefix, d.Elapsed.Seconds(), d.Allocated/1024/1024, d.GcEvents)
}
