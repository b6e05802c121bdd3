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
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/ttbt-io/rosterfix/roster"
)

// newReportCmd prints stored run reports. Arguments may be run IDs, storage
// names or paths under the report directory; with none it lists the runs.
func newReportCmd(v *viper.Viper) *cobra.Command {
	var format string
	var failedOnly bool
	cmd := &cobra.Command{
		Use:   "report [run-id|file]...",
		Short: "Show stored run reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := v.GetString("report-dir")
			if dir == "" {
				return errors.New("--report-dir is required")
			}
			if format != "json" && format != "yaml" {
				return fmt.Errorf("--format must be json or yaml, got %q", format)
			}
			store, err := roster.OpenReportStore(dir, os.Getenv(envPrefix+"_MASTER_KEY"))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				ids, err := store.List()
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			var failed int
			for _, arg := range args {
				r, err := store.Load(arg)
				if err != nil {
					log.Printf("%s: %v", arg, err)
					failed++
					continue
				}
				if failedOnly {
					r.Rows = r.Failures()
				}
				fmt.Fprintf(out, "=========== %s ===========\n", r.RunID)
				if format == "yaml" {
					enc := yaml.NewEncoder(out)
					enc.SetIndent(2)
					err = enc.Encode(r)
					enc.Close()
				} else {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					err = enc.Encode(r)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d reports could not be read", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only show failed rows")
	return cmd
}
