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
	"context"
	"strings"
)

// RowScanner reads the roster rows currently rendered by the host.
type RowScanner struct {
	Host      Host
	Selectors Selectors
}

// ListRows returns every rendered row in document order.
func (s *RowScanner) ListRows(ctx context.Context) ([]Handle, error) {
	return s.Host.Query(ctx, Document, s.Selectors.Row)
}

// IsPending reports whether the row carries the "invitation not yet
// accepted" indicator.
func (s *RowScanner) IsPending(ctx context.Context, row Handle) (bool, error) {
	hs, err := s.Host.Query(ctx, row, s.Selectors.Pending)
	if err != nil {
		return false, err
	}
	return len(hs) > 0, nil
}

// Labels returns the normalized, non-empty section labels of the row in
// rendered order.
func (s *RowScanner) Labels(ctx context.Context, row Handle) ([]string, error) {
	hs, err := s.Host.Query(ctx, row, s.Selectors.SectionLabel)
	if err != nil {
		return nil, err
	}
	var labels []string
	for _, h := range hs {
		text, err := s.Host.Text(ctx, h)
		if err != nil {
			return nil, err
		}
		if l := normalizeSpace(text); l != "" {
			labels = append(labels, l)
		}
	}
	return labels, nil
}

// TargetSection returns the row's target section. ok is false when no label
// qualifies.
func (s *RowScanner) TargetSection(ctx context.Context, row Handle) (label string, ok bool, err error) {
	labels, err := s.Labels(ctx, row)
	if err != nil {
		return "", false, err
	}
	label, ok = TargetSection(labels)
	return label, ok, nil
}

// TargetSection returns the first label whose first character is an ASCII
// letter.
func TargetSection(labels []string) (string, bool) {
	for _, l := range labels {
		l = normalizeSpace(l)
		if l != "" && isASCIILetter(l[0]) {
			return l, true
		}
	}
	return "", false
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// normalizeSpace trims s and collapses internal runs of whitespace.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
