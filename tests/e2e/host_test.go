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

package e2e

import (
	"errors"
	"testing"
	"time"

	"github.com/ttbt-io/rosterfix/roster"
	"github.com/ttbt-io/rosterfix/roster/cdp"
)

func TestHandlesAcrossReload(t *testing.T) {
	url := startFixtureServer(t)
	ctx := newTab(t, time.Minute)
	host := cdp.Host{}
	sel := roster.DefaultSelectors()

	runStep(t, ctx, "Open roster", openRoster(url))
	before, err := host.Query(ctx, roster.Document, sel.Row)
	if err != nil || len(before) == 0 {
		t.Fatalf("Query rows = %v, %v", before, err)
	}
	seen := roster.VisitedSet{}
	for _, h := range before {
		seen.Add(h)
	}

	runStep(t, ctx, "Reload roster", openRoster(url))
	after, err := host.Query(ctx, roster.Document, sel.Row)
	if err != nil || len(after) == 0 {
		t.Fatalf("Query rows after reload = %v, %v", after, err)
	}
	for _, h := range after {
		if seen.Has(h) {
			t.Errorf("reloaded row reuses handle %s", h)
		}
	}
	if _, err := host.Text(ctx, before[0]); !errors.Is(err, roster.ErrStaleHandle) {
		t.Errorf("Text on a pre-reload handle = %v, want ErrStaleHandle", err)
	}
}
