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
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

var (
	withChromeDP = flag.String("with-chromedp", "", "The url of the remote debugging port")
	fixtureHost  = flag.String("fixture-host", "localhost", "Host name the browser uses to reach the fixture server")
)

func TestMain(m *testing.M) {
	flag.Parse()
	exitCode := m.Run()
	os.Exit(exitCode)
}

// startFixtureServer serves testdata/ and returns the URL of the roster page.
func startFixtureServer(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "0.0.0.0:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	server := &http.Server{Handler: http.FileServer(http.Dir("testdata"))}
	go server.Serve(l)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	})
	_, port, _ := net.SplitHostPort(l.Addr().String())
	return fmt.Sprintf("http://%s:%s/roster.html", *fixtureHost, port)
}

// newTab opens a fresh tab on the remote browser. JS errors on the page fail
// the test.
func newTab(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	if *withChromeDP == "" {
		t.Skip("--with-chromedp not set")
	}
	ctx, cancel := chromedp.NewRemoteAllocator(t.Context(), *withChromeDP)
	t.Cleanup(cancel)
	ctx, cancel = chromedp.NewContext(ctx,
		chromedp.WithErrorf(log.Printf),
		chromedp.WithLogf(log.Printf),
	)
	t.Cleanup(cancel)
	ctx, cancel = context.WithTimeout(ctx, timeout)
	t.Cleanup(cancel)

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			if ev.Type == runtime.APITypeError {
				args := make([]string, len(ev.Args))
				for i, arg := range ev.Args {
					args[i] = string(arg.Value)
				}
				t.Logf("JS CONSOLE ERROR: %s", strings.Join(args, " "))
				t.Fail()
			}
		case *runtime.EventExceptionThrown:
			t.Logf("JS EXCEPTION: %s", ev.ExceptionDetails.Text)
			t.Fail()
		}
	})
	return ctx
}

func runStep(t *testing.T, ctx context.Context, description string, actions ...chromedp.Action) {
	t.Helper()
	t.Logf("STEP: %s", description)
	for i, action := range actions {
		if err := chromedp.Run(ctx, action); err != nil {
			if png, derr := DebugFailure(ctx, t, t.TempDir(), description); derr == nil {
				t.Logf("Saved %s", png)
			}
			t.Fatalf("STEP FAILED: %s [Action#%d]: %v", description, i, err)
		}
	}
}

func TestFixtureServed(t *testing.T) {
	url := startFixtureServer(t)
	url = strings.Replace(url, *fixtureHost, "127.0.0.1", 1)
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Failed to fetch %q: %v", url, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET %s = %d", url, resp.StatusCode)
	}
	if got, want := resp.Header.Get("Content-Type"), "text/html; charset=utf-8"; got != want {
		t.Errorf("Content-Type = %q, want %q", got, want)
	}
}
