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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// MatchTier says which rule chose an option.
type MatchTier int

const (
	TierExact MatchTier = iota
	TierPrefix
	TierSubstring
	TierToken
	TierFirst
)

func (t MatchTier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPrefix:
		return "prefix"
	case TierSubstring:
		return "substring"
	case TierToken:
		return "token"
	case TierFirst:
		return "first"
	}
	return "unknown"
}

// Match is the option picked by SelectBest.
type Match struct {
	Index int
	Label string
	Tier  MatchTier
}

// SelectBest picks the option for desired. Comparison is case-insensitive and
// the first rule with a hit wins, in this order: equal, starts with desired,
// contains desired, shortest option containing the first word of desired, the
// first option. Within the first three rules the earliest option wins. Equal
// length candidates under the word rule are ordered by edit distance to
// desired, then by position. ok is false only when options is empty.
func SelectBest(options []string, desired string) (m Match, ok bool) {
	if len(options) == 0 {
		return Match{}, false
	}
	want := strings.ToLower(desired)
	lower := make([]string, len(options))
	for i, o := range options {
		lower[i] = strings.ToLower(o)
	}

	tiers := []struct {
		tier MatchTier
		hit  func(string) bool
	}{
		{TierExact, func(o string) bool { return o == want }},
		{TierPrefix, func(o string) bool { return strings.HasPrefix(o, want) }},
		{TierSubstring, func(o string) bool { return strings.Contains(o, want) }},
	}
	for _, t := range tiers {
		for i, o := range lower {
			if t.hit(o) {
				return Match{Index: i, Label: options[i], Tier: t.tier}, true
			}
		}
	}

	token := leadingToken(want)
	best, bestLen, bestDist := -1, 0, 0
	for i, o := range lower {
		if !strings.Contains(o, token) {
			continue
		}
		n := utf8.RuneCountInString(o)
		d := levenshtein.ComputeDistance(o, want)
		if best < 0 || n < bestLen || (n == bestLen && d < bestDist) {
			best, bestLen, bestDist = i, n, d
		}
	}
	if best >= 0 {
		return Match{Index: best, Label: options[best], Tier: TierToken}, true
	}
	return Match{Index: 0, Label: options[0], Tier: TierFirst}, true
}

// Closest returns the option nearest to desired by case-insensitive edit
// distance.
func Closest(options []string, desired string) string {
	want := strings.ToLower(desired)
	closest, dist := "", -1
	for _, o := range options {
		d := levenshtein.ComputeDistance(strings.ToLower(o), want)
		if dist < 0 || d < dist {
			closest, dist = o, d
		}
	}
	return closest
}

func leadingToken(s string) string {
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i]
	}
	return s
}
