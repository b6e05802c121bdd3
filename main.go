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

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ttbt-io/rosterfix/roster"
	"github.com/ttbt-io/rosterfix/roster/cdp"
	"github.com/ttbt-io/rosterfix/tools/e2ehelpers"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	v := newViper()
	var configFile string

	root := &cobra.Command{
		Use:   "rosterfix",
		Short: "Re-assign the alphabetic section of pending roster enrollments",
		Long: "rosterfix drives an open roster page, finds every enrollment still marked pending " +
			"and re-assigns its alphabetic section through the page's own edit dialog.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfigFile(v, configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	if err := addPersistentFlags(root, v); err != nil {
		log.Fatalf("binding flags: %v", err)
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Process every pending row on the roster page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}
			return run(cmd, opts)
		},
	}
	if err := addRunFlags(runCmd, v); err != nil {
		log.Fatalf("binding flags: %v", err)
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rosterfix %s\n", version)
		},
	}

	root.AddCommand(runCmd, newReportCmd(v), newSelectorsCmd(v), versionCmd)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func eventSynthesizer(input string, host cdp.Host) roster.EventSynthesizer {
	if input == "cdp" {
		return cdp.InputEvents{Host: host}
	}
	return roster.DOMEvents{Host: host}
}

// run attaches to the roster page and executes one full run.
func run(cmd *cobra.Command, opts options) error {
	runID := uuid.NewString()
	logger := log.New(os.Stderr, "["+runID[:8]+"] ", log.LstdFlags)
	l := roster.StdLogger(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the store first so a key problem surfaces before any row changes.
	var store *roster.ReportStore
	if opts.ReportDir != "" {
		var err error
		if store, err = roster.OpenReportStore(opts.ReportDir, os.Getenv(envPrefix+"_MASTER_KEY")); err != nil {
			return err
		}
	}

	tabCtx, cancel, err := cdp.Connect(ctx, cdp.Options{
		ChromeURL:   opts.ChromeURL,
		TargetMatch: opts.TargetMatch,
		URL:         opts.URL,
		Headless:    opts.Headless,
		UserDataDir: opts.UserDataDir,
		Logf:        logger.Printf,
	})
	if err != nil {
		return err
	}
	defer cancel()

	logger.Printf("Waiting for roster rows (%s)...", opts.Selectors.Row)
	var first string
	if err := chromedp.Run(tabCtx, e2ehelpers.WaitAnyVisible(opts.Selectors.Row, &first, opts.WaitRows)); err != nil {
		return err
	}
	if counts, err := e2ehelpers.CountRows(tabCtx, opts.Selectors.Row, opts.Selectors.Pending); err == nil {
		logger.Printf("Loaded %d rows, %d pending. Dry run: %v", counts.Rows, counts.Pending, opts.Engine.DryRun)
	}

	host := cdp.Host{}
	o := roster.New(host, eventSynthesizer(opts.Input, host), opts.Selectors, opts.Engine, l)
	o.RunID = runID
	if opts.ScreenshotDir != "" {
		o.OnFailure = func(ctx context.Context, rec roster.RowRecord) {
			name := fmt.Sprintf("%s-%s-%s", runID[:8], rec.Label, rec.Row)
			if _, err := e2ehelpers.DebugFailure(ctx, l, opts.ScreenshotDir, name); err != nil {
				logger.Printf("Failure capture for %q: %v", rec.Label, err)
			}
		}
	}

	report, runErr := o.Run(tabCtx)
	if store != nil && report != nil {
		if err := store.Save(report); err != nil {
			logger.Printf("Saving report: %v", err)
		} else {
			logger.Printf("Saved report %s", roster.ReportName(runID))
		}
	}
	if report != nil {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(report))
	}
	return runErr
}

func newSelectorsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "selectors",
		Short: "Print the effective selector profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := loadSelectors(v)
			if err != nil {
				return err
			}
			out, err := roster.MarshalSelectors(sel)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
