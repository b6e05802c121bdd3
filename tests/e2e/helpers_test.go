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
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ttbt-io/rosterfix/roster"
	"github.com/ttbt-io/rosterfix/roster/cdp"
	"github.com/ttbt-io/rosterfix/tools/e2ehelpers"
)

var DisableCSSAnimations = e2ehelpers.DisableCSSAnimations
var WaitAnyVisible = e2ehelpers.WaitAnyVisible
var CaptureScreenshot = e2ehelpers.CaptureScreenshot
var DebugFailure = e2ehelpers.DebugFailure
var CountRows = e2ehelpers.CountRows

func domEvents(h cdp.Host) roster.EventSynthesizer   { return roster.DOMEvents{Host: h} }
func inputEvents(h cdp.Host) roster.EventSynthesizer { return cdp.InputEvents{Host: h} }

func waitUntilDisplayNone(selector string) chromedp.Tasks {
	return e2ehelpers.WaitUntilDisplayNone(selector, 10*time.Second)
}

// student mirrors one entry of the fixture's roster.
type student struct {
	Name     string   `json:"name"`
	Sections []string `json:"sections"`
	Pending  bool     `json:"pending"`
}

// fixtureLog returns the saves and dismissals the fixture page recorded.
func fixtureLog(log *[]string) chromedp.Action {
	return chromedp.Evaluate(`window.fixture.log.slice()`, log)
}

func fixtureState(state *[]student) chromedp.Action {
	return chromedp.Evaluate(`window.fixture.state()`, state)
}

// openRoster loads the fixture and waits for its first rows.
func openRoster(url string) chromedp.Tasks {
	var match string
	return chromedp.Tasks{
		chromedp.Navigate(url),
		DisableCSSAnimations(),
		WaitAnyVisible(roster.DefaultSelectors().Row, &match, 10*time.Second),
	}
}

// fastConfig keeps the fixture's timings but trims the settle pauses.
func fastConfig() roster.Config {
	cfg := roster.DefaultConfig()
	cfg.ScrollPause = 400 * time.Millisecond
	cfg.PollInterval = 25 * time.Millisecond
	cfg.ModalOpenTimeout = 5 * time.Second
	cfg.ModalCloseTimeout = 5 * time.Second
	cfg.OptionListTimeout = 5 * time.Second
	cfg.Settle = roster.Settle{
		Menu:   30 * time.Millisecond,
		Escape: 30 * time.Millisecond,
		Remove: 30 * time.Millisecond,
		Focus:  30 * time.Millisecond,
		Clear:  30 * time.Millisecond,
		Type:   30 * time.Millisecond,
		Key:    30 * time.Millisecond,
		Select: 30 * time.Millisecond,
		Save:   30 * time.Millisecond,
	}
	return cfg
}

// runEngine runs one orchestrator over the open tab and returns its report.
func runEngine(ctx context.Context, l roster.Logger, cfg roster.Config, events func(cdp.Host) roster.EventSynthesizer) (*roster.Report, error) {
	host := cdp.Host{}
	o := roster.New(host, events(host), roster.DefaultSelectors(), cfg, l)
	o.RunID = "e2e"
	return o.Run(ctx)
}
