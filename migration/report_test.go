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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregator_Build(t *testing.T) {
	tests := []struct {
		name       string
		successes  int
		failures   int
		wantStatus RunStatus
		wantMsg    string
	}{
		{"empty", 0, 0, StatusSuccess, "No matching files found"},
		{"all succeeded", 3, 0, StatusSuccess, "Successfully migrated 3 files"},
		{"partial", 2, 1, StatusPartialSuccess, "Migrated 2 of 3 files, 1 failed"},
		{"all failed", 0, 2, StatusError, "All 2 files failed to migrate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator("A/")
			agg.SetTotal(tt.successes + tt.failures)
			for i := 0; i < tt.successes; i++ {
				agg.RecordSuccess("A/ok.pdf")
			}
			for i := 0; i < tt.failures; i++ {
				agg.RecordFailure("A/bad.pdf", errors.New("boom"))
			}

			report := agg.Build()
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantMsg, report.Message)
			assert.Equal(t, report.TotalFound, report.Processed+report.Failed)
			assert.Len(t, report.Failures, tt.failures)
			assert.False(t, report.Aborted())
			assert.NotEmpty(t, report.RunID)
			assert.Equal(t, "A/", report.SourcePath)
		})
	}
}

func TestAggregator_FailuresKeepOrder(t *testing.T) {
	agg := NewAggregator("A/")
	agg.SetTotal(3)
	agg.RecordFailure("A/1.pdf", errors.New("one"))
	agg.RecordSuccess("A/2.pdf")
	agg.RecordFailure("A/3.pdf", &RemoteStoreError{Code: "quotaLimitReached", Message: "full"})

	report := agg.Build()
	assert.Equal(t, []string{"A/1.pdf", "A/3.pdf"}, []string{report.Failures[0].SourceKey, report.Failures[1].SourceKey})
	assert.Equal(t, OutcomeFailed, report.Failures[1].Status)
	assert.Equal(t, "Document library error [quotaLimitReached]: full", report.Failures[1].ErrorMessage)
	assert.Len(t, agg.Outcomes(), 3)
}

func TestAggregator_Abort(t *testing.T) {
	agg := NewAggregator("A/")
	agg.SetTotal(5)
	agg.RecordSuccess("A/1.pdf")
	cause := errors.New("defect")

	report := agg.Abort("Migration aborted", cause)
	assert.Equal(t, StatusError, report.Status)
	assert.Equal(t, 5, report.TotalFound)
	assert.Equal(t, 1, report.Processed)
	assert.True(t, report.Aborted())
	assert.ErrorIs(t, report.Err, cause)
}
