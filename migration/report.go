// Copyright 2025 AxonFlow
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package migration

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the overall outcome of a migration run
type RunStatus string

const (
	StatusSuccess        RunStatus = "Success"
	StatusPartialSuccess RunStatus = "PartialSuccess"
	StatusError          RunStatus = "Error"
)

// OutcomeStatus is the result of one file transfer
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "Success"
	OutcomeFailed  OutcomeStatus = "Failed"
)

// TransferOutcome records the result of one attempted file
type TransferOutcome struct {
	SourceKey    string        `json:"sourceKey"`
	Status       OutcomeStatus `json:"status"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
}

// TransferReport is the final result of a migration run
type TransferReport struct {
	RunID      string            `json:"runId"`
	Status     RunStatus         `json:"status"`
	Message    string            `json:"message"`
	SourcePath string            `json:"sourcePath"`
	TotalFound int               `json:"totalFound"`
	Processed  int               `json:"processed"`
	Failed     int               `json:"failed"`
	Failures   []TransferOutcome `json:"failures"`
	StartedAt  time.Time         `json:"startedAt"`
	Duration   time.Duration     `json:"durationNs"`

	// Err is the batch-fatal error that aborted the run, if any
	Err error `json:"-"`
}

// Aborted reports whether the run stopped before completing the per-file loop
func (r *TransferReport) Aborted() bool {
	return r.Err != nil
}

// Aggregator folds per-file outcomes into a TransferReport
type Aggregator struct {
	runID      string
	sourcePath string
	startedAt  time.Time
	totalFound int
	processed  int
	failed     int
	outcomes   []TransferOutcome
}

// NewAggregator starts a report for sourcePath
func NewAggregator(sourcePath string) *Aggregator {
	return &Aggregator{
		runID:      uuid.NewString(),
		sourcePath: sourcePath,
		startedAt:  time.Now(),
	}
}

// RunID returns the identifier of the run being aggregated
func (a *Aggregator) RunID() string {
	return a.runID
}

// SetTotal records how many matching files were found
func (a *Aggregator) SetTotal(n int) {
	a.totalFound = n
}

// RecordSuccess records a successful transfer of key
func (a *Aggregator) RecordSuccess(key string) {
	a.processed++
	a.outcomes = append(a.outcomes, TransferOutcome{SourceKey: key, Status: OutcomeSuccess})
}

// RecordFailure records a failed transfer of key with the categorized message for err
func (a *Aggregator) RecordFailure(key string, err error) {
	a.failed++
	a.outcomes = append(a.outcomes, TransferOutcome{
		SourceKey:    key,
		Status:       OutcomeFailed,
		ErrorMessage: DescribeError(err),
	})
}

// Outcomes returns every recorded outcome in the order they were recorded
func (a *Aggregator) Outcomes() []TransferOutcome {
	out := make([]TransferOutcome, len(a.outcomes))
	copy(out, a.outcomes)
	return out
}

// Build produces the report for a run that completed its per-file loop
func (a *Aggregator) Build() *TransferReport {
	report := a.base()
	switch {
	case a.totalFound == 0:
		report.Status = StatusSuccess
		report.Message = "No matching files found"
	case a.failed == 0:
		report.Status = StatusSuccess
		report.Message = fmt.Sprintf("Successfully migrated %d files", a.processed)
	case a.processed > 0:
		report.Status = StatusPartialSuccess
		report.Message = fmt.Sprintf("Migrated %d of %d files, %d failed", a.processed, a.totalFound, a.failed)
	default:
		report.Status = StatusError
		report.Message = fmt.Sprintf("All %d files failed to migrate", a.failed)
	}
	return report
}

// Abort produces an Error report for a run stopped by err. Counts gathered so
// far are kept.
func (a *Aggregator) Abort(message string, err error) *TransferReport {
	report := a.base()
	report.Status = StatusError
	report.Message = message
	report.Err = err
	return report
}

func (a *Aggregator) base() *TransferReport {
	failures := make([]TransferOutcome, 0, a.failed)
	for _, o := range a.outcomes {
		if o.Status == OutcomeFailed {
			failures = append(failures, o)
		}
	}
	return &TransferReport{
		RunID:      a.runID,
		SourcePath: a.sourcePath,
		TotalFound: a.totalFound,
		Processed:  a.processed,
		Failed:     a.failed,
		Failures:   failures,
		StartedAt:  a.startedAt,
		Duration:   time.Since(a.startedAt),
	}
}
