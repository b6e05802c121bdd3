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

package roster

import (
	"errors"
	"fmt"
	"time"
)

// Settle holds the fixed pauses inserted after actions so the host view can
// finish its asynchronous update before the next read.
type Settle struct {
	Menu   time.Duration `json:"menu" yaml:"menu"`
	Escape time.Duration `json:"escape" yaml:"escape"`
	Remove time.Duration `json:"remove" yaml:"remove"`
	Focus  time.Duration `json:"focus" yaml:"focus"`
	Clear  time.Duration `json:"clear" yaml:"clear"`
	Type   time.Duration `json:"type" yaml:"type"`
	Key    time.Duration `json:"key" yaml:"key"`
	Select time.Duration `json:"select" yaml:"select"`
	Save   time.Duration `json:"save" yaml:"save"`
}

// Config is constructed once per run and passed to every engine component.
type Config struct {
	// DryRun suppresses the Save click and the wait for the modal to close.
	DryRun bool `json:"dryRun" yaml:"dryRun"`
	// MaxPasses bounds the scan/scroll loop.
	MaxPasses int `json:"maxPasses" yaml:"maxPasses"`
	// ScrollFraction is the share of the viewport height scrolled per pass.
	ScrollFraction float64 `json:"scrollFraction" yaml:"scrollFraction"`
	// ScrollPause is the wait after each scroll for lazily loaded rows.
	ScrollPause time.Duration `json:"scrollPause" yaml:"scrollPause"`
	// BottomTolerance is the slack, in pixels, when deciding that the view is
	// at the bottom.
	BottomTolerance int `json:"bottomTolerance" yaml:"bottomTolerance"`

	PollInterval      time.Duration `json:"pollInterval" yaml:"pollInterval"`
	ModalOpenTimeout  time.Duration `json:"modalOpenTimeout" yaml:"modalOpenTimeout"`
	ModalCloseTimeout time.Duration `json:"modalCloseTimeout" yaml:"modalCloseTimeout"`
	OptionListTimeout time.Duration `json:"optionListTimeout" yaml:"optionListTimeout"`

	// ExpandAttempts is the number of key presses tried per modifier variant
	// when forcing the option list open.
	ExpandAttempts int `json:"expandAttempts" yaml:"expandAttempts"`

	Settle Settle `json:"settle" yaml:"settle"`
}

// DefaultConfig returns the timings the roster view has been observed to
// need.
func DefaultConfig() Config {
	return Config{
		MaxPasses:         500,
		ScrollFraction:    0.85,
		ScrollPause:       900 * time.Millisecond,
		BottomTolerance:   2,
		PollInterval:      50 * time.Millisecond,
		ModalOpenTimeout:  15 * time.Second,
		ModalCloseTimeout: 20 * time.Second,
		OptionListTimeout: 15 * time.Second,
		ExpandAttempts:    4,
		Settle: Settle{
			Menu:   160 * time.Millisecond,
			Escape: 80 * time.Millisecond,
			Remove: 220 * time.Millisecond,
			Focus:  90 * time.Millisecond,
			Clear:  90 * time.Millisecond,
			Type:   180 * time.Millisecond,
			Key:    140 * time.Millisecond,
			Select: 350 * time.Millisecond,
			Save:   220 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	var errs []error
	if c.MaxPasses < 1 {
		errs = append(errs, fmt.Errorf("max passes must be at least 1, got %d", c.MaxPasses))
	}
	if c.ScrollFraction <= 0 || c.ScrollFraction > 1 {
		errs = append(errs, fmt.Errorf("scroll fraction must be in (0,1], got %v", c.ScrollFraction))
	}
	if c.BottomTolerance < 0 {
		errs = append(errs, fmt.Errorf("bottom tolerance must not be negative, got %d", c.BottomTolerance))
	}
	if c.ExpandAttempts < 0 {
		errs = append(errs, fmt.Errorf("expand attempts must not be negative, got %d", c.ExpandAttempts))
	}
	for name, d := range map[string]time.Duration{
		"poll interval":       c.PollInterval,
		"modal open timeout":  c.ModalOpenTimeout,
		"modal close timeout": c.ModalCloseTimeout,
		"option list timeout": c.OptionListTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, d))
		}
	}
	if c.ScrollPause < 0 {
		errs = append(errs, fmt.Errorf("scroll pause must not be negative, got %v", c.ScrollPause))
	}
	s := c.Settle
	for _, d := range []time.Duration{s.Menu, s.Escape, s.Remove, s.Focus, s.Clear, s.Type, s.Key, s.Select, s.Save} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("settle delays must not be negative, got %v", d))
			break
		}
	}
	return errors.Join(errs...)
}
