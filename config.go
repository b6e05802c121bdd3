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
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ttbt-io/rosterfix/roster"
)

const envPrefix = "ROSTERFIX"

// options is everything a run needs, resolved from flags, environment and
// the optional config file.
type options struct {
	Engine        roster.Config
	Selectors     roster.Selectors
	Input         string
	ChromeURL     string
	TargetMatch   string
	URL           string
	Headless      bool
	UserDataDir   string
	WaitRows      time.Duration
	ReportDir     string
	ScreenshotDir string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	return v
}

// readConfigFile merges path into v. Values from flags and the environment
// still take precedence.
func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func addPersistentFlags(cmd *cobra.Command, v *viper.Viper) error {
	f := cmd.PersistentFlags()
	f.String("selectors", "", "YAML selector profile overriding the built-in Canvas selectors")
	f.String("report-dir", "", "Directory where run reports are stored")
	return v.BindPFlags(f)
}

func addRunFlags(cmd *cobra.Command, v *viper.Viper) error {
	def := roster.DefaultConfig()
	f := cmd.Flags()
	f.Bool("dry-run", false, "Do everything except click Save")
	f.Duration("scroll-pause", def.ScrollPause, "Wait after each scroll for more rows to load")
	f.Int("max-passes", def.MaxPasses, "Maximum number of scan/scroll passes")
	f.Float64("scroll-fraction", def.ScrollFraction, "Share of the viewport height scrolled per pass")
	f.Duration("poll-interval", def.PollInterval, "Interval between condition checks")
	f.Duration("modal-open-timeout", def.ModalOpenTimeout, "How long to wait for the edit modal to open")
	f.Duration("modal-close-timeout", def.ModalCloseTimeout, "How long to wait for the edit modal to close after Save")
	f.Duration("option-list-timeout", def.OptionListTimeout, "How long to wait for the section option list")
	f.Int("expand-attempts", def.ExpandAttempts, "Key presses per modifier variant when opening the option list")
	f.Int("bottom-tolerance", def.BottomTolerance, "Slack in pixels when deciding the list is scrolled to the bottom")
	for name, d := range settleKeys(&def.Settle) {
		f.Duration("settle-"+name, *d, "Pause after the "+name+" step")
	}
	f.String("input", "dom", "Event synthesis: dom (page script events) or cdp (DevTools input events)")
	f.String("chrome-url", "", "DevTools URL of a running browser; a local browser is launched when empty")
	f.String("target-match", "", "Attach to the open tab whose URL contains this string")
	f.String("url", "", "Page to load before the run")
	f.Bool("headless", false, "Run a launched browser headless")
	f.String("user-data-dir", "", "Profile directory for a launched browser")
	f.Duration("wait-rows", 2*time.Minute, "How long to wait for the first roster row to render")
	f.String("screenshot-dir", "", "Directory for screenshots of failed rows")
	return v.BindPFlags(f)
}

// settleKeys names the settle delays as they appear in flags, the
// environment and config files.
func settleKeys(s *roster.Settle) map[string]*time.Duration {
	return map[string]*time.Duration{
		"menu":   &s.Menu,
		"escape": &s.Escape,
		"remove": &s.Remove,
		"focus":  &s.Focus,
		"clear":  &s.Clear,
		"type":   &s.Type,
		"key":    &s.Key,
		"select": &s.Select,
		"save":   &s.Save,
	}
}

func loadSelectors(v *viper.Viper) (roster.Selectors, error) {
	path := v.GetString("selectors")
	if path == "" {
		return roster.DefaultSelectors(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return roster.Selectors{}, err
	}
	sel, err := roster.ParseSelectors(data)
	if err != nil {
		return roster.Selectors{}, fmt.Errorf("%s: %w", path, err)
	}
	return sel, nil
}

func loadOptions(v *viper.Viper) (options, error) {
	cfg := roster.DefaultConfig()
	cfg.DryRun = v.GetBool("dry-run")
	cfg.ScrollPause = v.GetDuration("scroll-pause")
	cfg.MaxPasses = v.GetInt("max-passes")
	cfg.ScrollFraction = v.GetFloat64("scroll-fraction")
	cfg.PollInterval = v.GetDuration("poll-interval")
	cfg.ModalOpenTimeout = v.GetDuration("modal-open-timeout")
	cfg.ModalCloseTimeout = v.GetDuration("modal-close-timeout")
	cfg.OptionListTimeout = v.GetDuration("option-list-timeout")
	cfg.ExpandAttempts = v.GetInt("expand-attempts")
	cfg.BottomTolerance = v.GetInt("bottom-tolerance")
	for name, d := range settleKeys(&cfg.Settle) {
		*d = v.GetDuration("settle-" + name)
	}
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	sel, err := loadSelectors(v)
	if err != nil {
		return options{}, err
	}

	o := options{
		Engine:        cfg,
		Selectors:     sel,
		Input:         v.GetString("input"),
		ChromeURL:     v.GetString("chrome-url"),
		TargetMatch:   v.GetString("target-match"),
		URL:           v.GetString("url"),
		Headless:      v.GetBool("headless"),
		UserDataDir:   v.GetString("user-data-dir"),
		WaitRows:      v.GetDuration("wait-rows"),
		ReportDir:     v.GetString("report-dir"),
		ScreenshotDir: v.GetString("screenshot-dir"),
	}
	switch o.Input {
	case "dom", "cdp":
	default:
		return options{}, fmt.Errorf("--input must be dom or cdp, got %q", o.Input)
	}
	if o.WaitRows <= 0 {
		return options{}, fmt.Errorf("--wait-rows must be positive, got %v", o.WaitRows)
	}
	return o, nil
}
