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
	"strings"
	"time"
)

var (
	ErrTimeout         = errors.New("timeout")
	ErrElementNotFound = errors.New("element not found")
	ErrNoOptions       = errors.New("option list has no options")
	ErrVerification    = errors.New("section not assigned after selection")
	ErrSaveTimeout     = errors.New("modal did not close after save")

	// ErrStaleHandle is returned by a Host for a handle whose node is no
	// longer in the document.
	ErrStaleHandle = errors.New("stale handle")

	// ErrNoAlphaSection marks a pending row without a section label that starts
	// with a letter. Such rows are skipped; the error is only ever logged.
	ErrNoAlphaSection = errors.New("no alphabetic section on row")
)

// TimeoutError is returned when a polled condition does not settle within its
// budget.
type TimeoutError struct {
	What    string
	Timeout time.Duration
	// Last is the most recent error returned by the condition, if any.
	Last error
}

func (e *TimeoutError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("timeout after %v waiting for %s (last error: %v)", e.Timeout, e.What, e.Last)
	}
	return fmt.Sprintf("timeout after %v waiting for %s", e.Timeout, e.What)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// ElementNotFoundError reports a required control that was absent when it was
// needed. Err carries the timeout when the control was waited for.
type ElementNotFoundError struct {
	What string
	Err  error
}

func (e *ElementNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s not found: %v", e.What, e.Err)
	}
	return e.What + " not found"
}

func (e *ElementNotFoundError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrElementNotFound, e.Err}
	}
	return []error{ErrElementNotFound}
}

func notFound(what string) error {
	return &ElementNotFoundError{What: what}
}

// SaveTimeoutError is returned when the modal stays open after Save was
// clicked.
type SaveTimeoutError struct {
	Err error
}

func (e *SaveTimeoutError) Error() string {
	return fmt.Sprintf("save: %v", e.Err)
}

func (e *SaveTimeoutError) Unwrap() []error {
	return []error{ErrSaveTimeout, e.Err}
}

// VerificationError is returned when an option was clicked but the section
// does not show up among the assigned sections afterwards.
type VerificationError struct {
	Label  string
	Chosen string
	// Sample holds up to eight of the option labels that were offered.
	Sample []string
	// Closest is the offered label nearest to Label by edit distance.
	Closest string
}

func (e *VerificationError) Error() string {
	msg := fmt.Sprintf("selected %q but %q did not appear in the assigned sections; top options were: %s",
		e.Chosen, e.Label, strings.Join(e.Sample, " | "))
	if e.Closest != "" && e.Closest != e.Chosen {
		msg += fmt.Sprintf(" (closest: %q)", e.Closest)
	}
	return msg
}

func (e *VerificationError) Unwrap() error { return ErrVerification }

// RowError records the workflow state a row failed in.
type RowError struct {
	Label string
	State State
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %q failed in %s: %v", e.Label, e.State, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
