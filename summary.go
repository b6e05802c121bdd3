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
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ttbt-io/rosterfix/roster"
)

var (
	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelColumn = lipgloss.NewStyle().Width(11)
)

func renderSummary(r *roster.Report) string {
	s := r.Summary()
	title := "Run " + r.RunID
	if r.Config.DryRun {
		title += " (dry run)"
	}
	line := func(label string, n int, style lipgloss.Style) string {
		return labelColumn.Render(label) + style.Render(fmt.Sprint(n))
	}
	lines := []string{
		titleStyle.Render(title),
		dimStyle.Render(fmt.Sprintf("%d passes, stopped: %s", r.Passes, r.Stopped)),
		"",
		line("Seen", s.Seen, lipgloss.NewStyle()),
		line("Pending", s.Pending, lipgloss.NewStyle()),
		line("Processed", s.Processed, okStyle),
		line("Skipped", s.Skipped, warnStyle),
		line("Failed", s.Failed, failStyle),
	}
	if failures := r.Failures(); len(failures) > 0 {
		lines = append(lines, "")
		for _, f := range failures {
			lines = append(lines, failStyle.Render("✗ ")+f.Label+dimStyle.Render(" ["+f.State+"] ")+f.Error)
		}
	}
	return summaryBox.Render(strings.Join(lines, "\n"))
}
