// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package roster

import "time"

// RowStatus is the outcome of one pending row.
type RowStatus string

const (
	RowProcessed RowStatus = "processed"
	RowSkipped   RowStatus = "skipped"
	RowFailed    RowStatus = "failed"
)

// StopReason says why the scan/scroll loop ended.
type StopReason string

const (
	StopExhausted StopReason = "exhausted"
	StopPassCap   StopReason = "pass-cap"
	StopCancelled StopReason = "cancelled"
	StopHostError StopReason = "host-error"
)

// RowRecord is the audit entry for one pending row.
type RowRecord struct {
	Row    Handle    `json:"row" yaml:"row"`
	Pass   int       `json:"pass" yaml:"pass"`
	Label  string    `json:"label,omitempty" yaml:"label,omitempty"`
	Status RowStatus `json:"status" yaml:"status"`
	Chosen string    `json:"chosen,omitempty" yaml:"chosen,omitempty"`
	Tier   string    `json:"tier,omitempty" yaml:"tier,omitempty"`
	// State is the workflow state a failed row stopped in.
	State string    `json:"state,omitempty" yaml:"state,omitempty"`
	Error string    `json:"error,omitempty" yaml:"error,omitempty"`
	At    time.Time `json:"at" yaml:"at"`
}

// Report is the record of one run.
type Report struct {
	RunID      string      `json:"runId" yaml:"runId"`
	StartedAt  time.Time   `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt" yaml:"finishedAt"`
	Config     Config      `json:"config" yaml:"config"`
	Passes     int         `json:"passes" yaml:"passes"`
	RowsSeen   int         `json:"rowsSeen" yaml:"rowsSeen"`
	Stopped    StopReason  `json:"stopped" yaml:"stopped"`
	Rows       []RowRecord `json:"rows" yaml:"rows"`
}

// Summary counts row outcomes.
type Summary struct {
	Seen      int
	Pending   int
	Processed int
	Skipped   int
	Failed    int
}

func (r *Report) Summary() Summary {
	s := Summary{Seen: r.RowsSeen, Pending: len(r.Rows)}
	for _, row := range r.Rows {
		switch row.Status {
		case RowProcessed:
			s.Processed++
		case RowSkipped:
			s.Skipped++
		case RowFailed:
			s.Failed++
		}
	}
	return s
}

// Failures returns the failed rows.
func (r *Report) Failures() []RowRecord {
	var out []RowRecord
	for _, row := range r.Rows {
		if row.Status == RowFailed {
			out = append(out, row)
		}
	}
	return out
}
