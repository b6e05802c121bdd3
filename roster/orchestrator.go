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

import (
	"context"
	"errors"
	"math"
	"time"
)

// RowWorkflow performs the remove/re-add workflow for one row.
type RowWorkflow interface {
	ProcessRow(ctx context.Context, row Handle, label string) (RowResult, error)
}

// VisitedSet holds the rows already looked at in this run. It only records
// identities; the host owns the rows.
type VisitedSet map[Handle]struct{}

// Add marks h visited and reports whether it was new.
func (v VisitedSet) Add(h Handle) bool {
	if _, ok := v[h]; ok {
		return false
	}
	v[h] = struct{}{}
	return true
}

func (v VisitedSet) Has(h Handle) bool {
	_, ok := v[h]
	return ok
}

// Orchestrator scans the rendered rows, runs the workflow for every new
// pending row and scrolls until the list is exhausted.
type Orchestrator struct {
	Host     Host
	Scanner  *RowScanner
	Workflow RowWorkflow
	Config   Config
	Log      Logger
	// RunID labels the report.
	RunID string
	// OnFailure, if set, is called after a row fails.
	OnFailure func(ctx context.Context, rec RowRecord)
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// New wires the engine components for one run.
func New(host Host, events EventSynthesizer, sel Selectors, cfg Config, l Logger) *Orchestrator {
	return &Orchestrator{
		Host:    host,
		Scanner: &RowScanner{Host: host, Selectors: sel},
		Workflow: &ModalController{
			Host:      host,
			Events:    events,
			Selectors: sel,
			Config:    cfg,
			Log:       l,
		},
		Config: cfg,
		Log:    l,
	}
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Log != nil {
		o.Log.Logf(format, args...)
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Run executes passes until the list is exhausted or Config.MaxPasses is
// reached. Row failures are recorded in the report and never end the run. The
// returned report is complete up to the point of any returned error.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     o.RunID,
		StartedAt: o.now(),
		Config:    o.Config,
		Stopped:   StopPassCap,
	}
	visited := VisitedSet{}
	defer func() { report.FinishedAt = o.now() }()

	for pass := range o.Config.MaxPasses {
		report.Passes = pass + 1
		didWork, err := o.scanPass(ctx, pass, visited, report)
		if err != nil {
			return report, o.stop(ctx, report, err)
		}

		before, err := o.Host.Viewport(ctx)
		if err != nil {
			return report, o.stop(ctx, report, err)
		}
		dy := int(math.Round(float64(before.InnerHeight) * o.Config.ScrollFraction))
		if err := o.Host.ScrollBy(ctx, dy); err != nil {
			return report, o.stop(ctx, report, err)
		}
		if err := pause(ctx, o.Config.ScrollPause); err != nil {
			return report, o.stop(ctx, report, err)
		}
		after, err := o.Host.Viewport(ctx)
		if err != nil {
			return report, o.stop(ctx, report, err)
		}

		if after.ScrollHeight == before.ScrollHeight && after.AtBottom(o.Config.BottomTolerance) && !didWork {
			report.Stopped = StopExhausted
			break
		}
	}
	s := report.Summary()
	o.logf("All done. %d passes, %d rows seen, %d pending: %d processed, %d skipped, %d failed",
		report.Passes, s.Seen, s.Pending, s.Processed, s.Skipped, s.Failed)
	return report, nil
}

func (o *Orchestrator) stop(ctx context.Context, report *Report, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		report.Stopped = StopCancelled
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		report.Stopped = StopCancelled
	} else {
		report.Stopped = StopHostError
	}
	return err
}

// scanPass visits every rendered row not seen before. It reports whether a
// pending row was encountered.
func (o *Orchestrator) scanPass(ctx context.Context, pass int, visited VisitedSet, report *Report) (bool, error) {
	rows, err := o.Scanner.ListRows(ctx)
	if err != nil {
		return false, err
	}
	didWork := false
	for _, row := range rows {
		if visited.Has(row) {
			continue
		}
		pending, err := o.Scanner.IsPending(ctx, row)
		if err != nil {
			if ctx.Err() != nil {
				return didWork, ctx.Err()
			}
			// Usually a row the page re-rendered mid-pass. Its replacement
			// shows up under a new handle on a later pass.
			o.logf("Could not read row %s: %v; leaving it for a later pass.", row, err)
			continue
		}
		visited.Add(row)
		report.RowsSeen++
		if !pending {
			continue
		}
		didWork = true
		if err := o.processPending(ctx, pass, row, report); err != nil {
			return didWork, err
		}
	}
	return didWork, nil
}

// processPending runs the workflow for one pending row. It only returns an
// error when ctx is done.
func (o *Orchestrator) processPending(ctx context.Context, pass int, row Handle, report *Report) error {
	rec := RowRecord{Row: row, Pass: pass}
	label, ok, err := o.Scanner.TargetSection(ctx, row)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		o.fail(ctx, report, rec, err)
		return nil
	}
	if !ok {
		o.logf("Pending row %s: %v; skipping.", row, ErrNoAlphaSection)
		rec.Status = RowSkipped
		rec.At = o.now()
		report.Rows = append(report.Rows, rec)
		return nil
	}

	rec.Label = label
	o.logf("Processing pending row %s. Section: %s", row, label)
	res, err := o.Workflow.ProcessRow(ctx, row, label)
	if res.Chosen.Label != "" {
		rec.Chosen = res.Chosen.Label
		rec.Tier = res.Chosen.Tier.String()
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			rec.State = rowErr.State.String()
		}
		o.fail(ctx, report, rec, err)
		return nil
	}
	rec.Status = RowProcessed
	rec.At = o.now()
	report.Rows = append(report.Rows, rec)
	o.logf("Done row: %s", label)
	return nil
}

func (o *Orchestrator) fail(ctx context.Context, report *Report, rec RowRecord, err error) {
	rec.Status = RowFailed
	rec.Error = err.Error()
	rec.At = o.now()
	report.Rows = append(report.Rows, rec)
	o.logf("Failed row %s: %v", rec.Row, err)
	if o.OnFailure != nil {
		o.OnFailure(ctx, rec)
	}
}
