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

// Package e2ehelpers holds chromedp actions shared by the rosterfix command
// and its browser tests.
package e2ehelpers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Logger interface allows passing *testing.T or log.Printf
type Logger interface {
	Logf(format string, args ...any)
}

// CaptureScreenshot captures a screenshot and saves it to the specified filename.
func CaptureScreenshot(ctx context.Context, filename string) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directory for screenshot: %w", err)
	}
	if err := os.WriteFile(filename, buf, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot to file: %w", err)
	}
	log.Printf("Saved screenshot to %s", filename)
	return nil
}

// SafeName turns a row label into something usable in a file name.
func SafeName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.' || r == ',':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}

// DebugFailure saves the page HTML and a screenshot under dir as
// debug-<name>.html and debug-<name>.png. It returns the screenshot path.
func DebugFailure(ctx context.Context, l Logger, dir, name string) (string, error) {
	name = SafeName(name)
	l.Logf("DEBUG: capturing failure info for %s", name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	var htmlContent string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery)); err != nil {
		l.Logf("DEBUG: Failed to capture HTML: %v", err)
	} else if err := os.WriteFile(filepath.Join(dir, "debug-"+name+".html"), []byte(htmlContent), 0644); err != nil {
		l.Logf("DEBUG: Failed to write HTML: %v", err)
	}
	png := filepath.Join(dir, "debug-"+name+".png")
	if err := CaptureScreenshot(ctx, png); err != nil {
		return "", err
	}
	return png, nil
}

func DisableCSSAnimations() chromedp.ActionFunc {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.Evaluate(`
			const style = document.createElement('style');
			style.innerHTML = '*{-webkit-transition-duration:0s!important;transition-duration:0s!important;-webkit-animation-duration:0s!important;animation-duration:0s!important;}';
			document.head.appendChild(style);
		`, nil).Do(ctx)
	})
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// WaitAnyVisible waits until one element matching sel is rendered and stores
// a short description of it in match.
func WaitAnyVisible(sel string, match *string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()

		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		for {
			select {
			case <-ticker.C:
				err := chromedp.Evaluate(fmt.Sprintf(
					`(function(selectors) {
					const elements = document.querySelectorAll(selectors);
					for (let i = 0; i < elements.length; i++) {
						const el = elements[i];
						const style = window.getComputedStyle(el);
						if (el.offsetHeight !== 0 && style.display !== 'none' && style.visibility !== 'hidden') {
							return el.tagName.toLowerCase() + (el.id ? '#' + el.id : '');
						}
					}
					return '';
				})(%s)`, quote(sel)), match).Do(ctx)
				if err == nil && *match != "" {
					return nil
				}
			case <-timeoutCtx.Done():
				return fmt.Errorf("timeout waiting for %s to become visible: %w", sel, timeoutCtx.Err())
			}
		}
	})
}

// RosterCounts is a snapshot of how many rows are loaded and how many of
// them still carry the pending marker.
type RosterCounts struct {
	Rows    int `json:"rows"`
	Pending int `json:"pending"`
}

// CountRows counts the loaded rows matching rowSel and those of them that
// contain an element matching pendingSel.
func CountRows(ctx context.Context, rowSel, pendingSel string) (RosterCounts, error) {
	var c RosterCounts
	err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(`(() => {
		const rows = Array.from(document.querySelectorAll(%s));
		return {rows: rows.length, pending: rows.filter(r => r.querySelector(%s) !== null).length};
	})()`, quote(rowSel), quote(pendingSel)), &c))
	return c, err
}

// WaitUntilDisplayNone waits until the element is hidden (display: none) or removed.
func WaitUntilDisplayNone(selector string, timeout time.Duration) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.ActionFunc(func(ctx context.Context) error {
			log.Printf("WaitUntilDisplayNone: %s", selector)
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			deadline := time.After(timeout)
			for {
				select {
				case <-ctx.Done():
					return fmt.Errorf("context cancelled while waiting for %s to have display: none", selector)
				case <-ticker.C:
					var display string
					err := chromedp.Evaluate(fmt.Sprintf(`(() => {
						const el = document.querySelector(%s);
						return el === null ? 'removed' : window.getComputedStyle(el).display;
					})()`, quote(selector)), &display).Do(ctx)
					if err != nil {
						return fmt.Errorf("error checking display of %s: %w", selector, err)
					}
					if display == "removed" || display == "none" {
						return nil
					}
				case <-deadline:
					return fmt.Errorf("timeout waiting for %s to have display: none", selector)
				}
			}
		}),
	}
}
