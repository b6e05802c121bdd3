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

// Command screenshots walks the roster fixture through each stage of the
// per-row workflow and saves a screenshot of every stage. It never saves, so
// the fixture is left as it was.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ttbt-io/rosterfix/roster"
	"github.com/ttbt-io/rosterfix/roster/cdp"
	"github.com/ttbt-io/rosterfix/tools/e2ehelpers"
)

var (
	chromeURL  = flag.String("chrome-url", "", "The url of the remote debugging port")
	outputDir  = flag.String("output-dir", "/screenshots", "Directory to save screenshots")
	fixtureDir = flag.String("fixture-dir", "tests/e2e/testdata", "Directory holding roster.html")
	host       = flag.String("host", "localhost", "Host name the browser uses to reach this process")
)

func main() {
	flag.Parse()

	if *chromeURL == "" {
		log.Fatal("--chrome-url must be set")
	}

	url := startServer()
	log.Printf("Fixture served at %s", url)

	ctx, cancel := chromedp.NewRemoteAllocator(context.Background(), *chromeURL)
	defer cancel()

	ctx, cancel = chromedp.NewContext(ctx, chromedp.WithLogf(log.Printf))
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	log.Println("Starting screenshot generation...")
	if err := generateScreenshots(ctx, url); err != nil {
		log.Fatalf("Failed to generate screenshots: %v", err)
	}
	log.Println("Screenshots generated successfully.")
}

func debugFailure(ctx context.Context, name string) {
	if _, err := e2ehelpers.DebugFailure(ctx, roster.StdLogger(log.Default()), *outputDir, name); err != nil {
		log.Printf("DEBUG: Failed to capture failure info: %v", err)
	}
}

// runAction executes a chromedp action with a timeout and debug capture on failure.
func runAction(ctx context.Context, name string, action chromedp.Action, timeout time.Duration) error {
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- chromedp.Run(stepCtx, action)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Printf("Action '%s' failed: %v", name, err)
			debugFailure(ctx, name+"-failed")
			return err
		}
		return nil
	case <-stepCtx.Done():
		log.Printf("Action '%s' timed out", name)
		debugFailure(ctx, name+"-timeout")
		return stepCtx.Err()
	}
}

func captureScreenshot(ctx context.Context, filename string) error {
	return e2ehelpers.CaptureScreenshot(ctx, filepath.Join(*outputDir, filename))
}

// generateScreenshots opens the first pending row's edit dialog and captures
// the menu, the dialog, the removal and the open option list.
func generateScreenshots(ctx context.Context, url string) error {
	sel := roster.DefaultSelectors()
	cfg := roster.DefaultConfig()
	h := cdp.Host{}
	events := roster.DOMEvents{Host: h}
	scanner := &roster.RowScanner{Host: h, Selectors: sel}
	mc := &roster.ModalController{Host: h, Events: events, Selectors: sel, Config: cfg, Log: roster.StdLogger(log.Default())}

	var match string
	if err := runAction(ctx, "load", chromedp.Tasks{
		chromedp.Navigate(url),
		e2ehelpers.DisableCSSAnimations(),
		e2ehelpers.WaitAnyVisible(sel.Row, &match, 10*time.Second),
	}, 15*time.Second); err != nil {
		return err
	}
	if err := captureScreenshot(ctx, "01-roster.png"); err != nil {
		return err
	}

	var row roster.Handle
	var label string
	if err := runAction(ctx, "find-pending", chromedp.ActionFunc(func(ctx context.Context) error {
		rows, err := scanner.ListRows(ctx)
		if err != nil {
			return err
		}
		for _, r := range rows {
			pending, err := scanner.IsPending(ctx, r)
			if err != nil {
				return err
			}
			if !pending {
				continue
			}
			l, ok, err := scanner.TargetSection(ctx, r)
			if err != nil {
				return err
			}
			if ok {
				row, label = r, l
				return nil
			}
		}
		return errors.New("no pending row with an alphabetic section")
	}), 10*time.Second); err != nil {
		return err
	}
	log.Printf("Using pending row %s, section %s", row, label)

	var session roster.Session
	steps := []struct {
		name   string
		action chromedp.ActionFunc
	}{
		{"02-menu", func(ctx context.Context) error {
			triggers, err := h.Query(ctx, row, sel.MenuTrigger)
			if err != nil {
				return err
			}
			if len(triggers) == 0 {
				return fmt.Errorf("row %s has no menu trigger", row)
			}
			if err := h.ScrollIntoView(ctx, triggers[0], "center"); err != nil {
				return err
			}
			return events.Click(ctx, triggers[0])
		}},
		{"03-modal", func(ctx context.Context) error {
			if err := h.Dispatch(ctx, roster.Document, roster.KeySequence(roster.KeyEscape, false)[0]); err != nil {
				return err
			}
			var err error
			session, err = mc.OpenEditSurface(ctx, row)
			return err
		}},
		{"04-removed", func(ctx context.Context) error {
			_, err := mc.RemoveTargetSection(ctx, session, label)
			return err
		}},
		{"05-option-list", func(ctx context.Context) error {
			fields, err := h.Query(ctx, session.Handle, sel.SectionInput)
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return errors.New("dialog has no section input")
			}
			if err := h.SetValue(ctx, fields[0], label); err != nil {
				return err
			}
			_, err = mc.ForceOptionListOpen(ctx, fields[0])
			return err
		}},
		{"06-dismissed", func(ctx context.Context) error {
			return mc.Dismiss(ctx)
		}},
	}
	for _, step := range steps {
		if err := runAction(ctx, step.name, step.action, 30*time.Second); err != nil {
			return err
		}
		if err := captureScreenshot(ctx, step.name+".png"); err != nil {
			return err
		}
	}
	return nil
}

func startServer() string {
	l, err := net.Listen("tcp", "0.0.0.0:0")
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	go http.Serve(l, http.FileServer(http.Dir(*fixtureDir)))
	_, port, _ := net.SplitHostPort(l.Addr().String())
	return fmt.Sprintf("http://%s:%s/roster.html", *host, port)
}
