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

package cdp

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// Options select the browser tab to drive.
type Options struct {
	// ChromeURL is the DevTools endpoint of a running browser. When empty a
	// local browser is launched.
	ChromeURL string
	// TargetMatch attaches to the first open page whose URL contains it
	// instead of opening a new tab.
	TargetMatch string
	// URL, when set, is loaded in the tab before returning.
	URL         string
	Headless    bool
	UserDataDir string
	Logf        func(string, ...any)
}

// Connect returns a chromedp context bound to the tab selected by opts. The
// cancel function releases the tab and, for a launched browser, the browser.
func Connect(ctx context.Context, opts Options) (context.Context, context.CancelFunc, error) {
	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if opts.ChromeURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, opts.ChromeURL)
	} else {
		execOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", opts.Headless))
		if opts.UserDataDir != "" {
			execOpts = append(execOpts, chromedp.UserDataDir(opts.UserDataDir))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, execOpts...)
	}
	var ctxOpts []chromedp.ContextOption
	if opts.Logf != nil {
		ctxOpts = append(ctxOpts, chromedp.WithLogf(opts.Logf))
	}

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, ctxOpts...)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}
	tabCtx := browserCtx

	if opts.TargetMatch != "" {
		if err := chromedp.Run(browserCtx); err != nil {
			cancel()
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		targets, err := chromedp.Targets(browserCtx)
		if err != nil {
			cancel()
			return nil, nil, fmt.Errorf("list targets: %w", err)
		}
		id, ok := matchTarget(targets, opts.TargetMatch)
		if !ok {
			cancel()
			return nil, nil, fmt.Errorf("no page matching %q", opts.TargetMatch)
		}
		var cancelTab context.CancelFunc
		tabCtx, cancelTab = chromedp.NewContext(browserCtx, append(ctxOpts, chromedp.WithTargetID(id))...)
		cancel = func() {
			cancelTab()
			cancelBrowser()
			cancelAlloc()
		}
	}

	actions := []chromedp.Action{}
	if opts.URL != "" {
		actions = append(actions, chromedp.Navigate(opts.URL))
	}
	actions = append(actions, chromedp.WaitReady("body", chromedp.ByQuery))
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("open page: %w", err)
	}
	return tabCtx, cancel, nil
}

func matchTarget(targets []*target.Info, match string) (target.ID, bool) {
	for _, t := range targets {
		if t.Type == "page" && strings.Contains(t.URL, match) {
			return t.TargetID, true
		}
	}
	return "", false
}
