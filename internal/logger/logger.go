// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DoneFn finalizes one in-flight phase into an appended Record. Returned
// by Begin.
type DoneFn func(status Status, expression, rendered, ruleID string, meta map[string]any) Record

// Logger is an append-only, single-run trace sink. It owns the
// step_index counter and is the only place that counter advances, so the
// dense/strictly-increasing invariant (spec §3) can never be violated by
// a caller.
type Logger struct {
	runID     uuid.UUID
	records   []Record
	nextIndex int
	clock     func() time.Time
}

// New starts a logger for a fresh run, stamping every record it produces
// with a freshly generated RunID.
func New() *Logger {
	return NewWithClock(uuid.New(), time.Now)
}

// NewWithClock is New with an explicit run id and time source, for
// deterministic tests.
func NewWithClock(runID uuid.UUID, clock func() time.Time) *Logger {
	return &Logger{runID: runID, clock: clock}
}

// RunID reports the run this logger is writing records for.
func (l *Logger) RunID() uuid.UUID { return l.runID }

// Append records one phase outcome directly, without timing. The
// evaluator logs every node kind this way.
func (l *Logger) Append(phase Phase, status Status, expression, rendered, ruleID string, meta map[string]any) Record {
	rec := Record{
		StepIndex:  l.nextIndex,
		Timestamp:  l.clock().Format(time.RFC3339Nano),
		Phase:      phase,
		Expression: expression,
		Rendered:   rendered,
		Status:     status,
		RuleID:     ruleID,
		Meta:       meta,
		RunID:      l.runID,
	}
	l.records = append(l.records, rec)
	l.nextIndex++
	return rec
}

// Begin opens a timed phase and returns the DoneFn that closes it. The
// elapsed time lands in the record's Meta under "duration_ms". The
// evaluator does not use Begin; its records carry no duration_ms.
func (l *Logger) Begin(phase Phase) DoneFn {
	start := l.clock()
	return func(status Status, expression, rendered, ruleID string, meta map[string]any) Record {
		if meta == nil {
			meta = make(map[string]any, 1)
		}
		meta["duration_ms"] = l.clock().Sub(start).Milliseconds()
		return l.Append(phase, status, expression, rendered, ruleID, meta)
	}
}

// Records returns a snapshot of every record appended so far, in order.
func (l *Logger) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Last returns the most recently appended record, if any.
func (l *Logger) Last() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[len(l.records)-1], true
}

// Len reports how many records have been appended.
func (l *Logger) Len() int { return len(l.records) }

// CheckDense verifies the strictly-increasing-and-dense step_index
// invariant (spec §3). It is never violated by Append itself — this
// exists for tests and for a loaded/replayed record slice originating
// outside this Logger.
func CheckDense(records []Record) error {
	for i, rec := range records {
		if rec.StepIndex != i {
			return fmt.Errorf("logger: record %d has step_index %d, want %d", i, rec.StepIndex, i)
		}
	}
	return nil
}
