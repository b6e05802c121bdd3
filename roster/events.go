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
	"errors"
)

// Key identifies a keyboard key by its symbolic name and legacy numeric code.
type Key struct {
	Name    string
	Code    string
	KeyCode int
}

var (
	KeyArrowDown = Key{Name: "ArrowDown", Code: "ArrowDown", KeyCode: 40}
	KeyEscape    = Key{Name: "Escape", Code: "Escape", KeyCode: 27}
)

// EventSynthesizer emits the primitive event bursts the roster view reacts
// to. A plain click() is ignored by its components.
type EventSynthesizer interface {
	// Click emits pointerdown, mousedown, mouseup and click on target.
	Click(ctx context.Context, target Handle) error
	// Key emits keydown then keyup on target.
	Key(ctx context.Context, target Handle, key Key, alt bool) error
}

// ClickSequence returns the events of one primary-button click, in order.
func ClickSequence() []Event {
	return []Event{
		{Kind: PointerEvent, Type: "pointerdown"},
		{Kind: MouseEvent, Type: "mousedown"},
		{Kind: MouseEvent, Type: "mouseup"},
		{Kind: MouseEvent, Type: "click"},
	}
}

// KeySequence returns the keydown/keyup pair for key. Both events carry the
// numeric code since the view inspects keyCode rather than key.
func KeySequence(key Key, alt bool) []Event {
	ev := Event{Kind: KeyboardEvent, Key: key.Name, Code: key.Code, KeyCode: key.KeyCode, Alt: alt}
	down, up := ev, ev
	down.Type = "keydown"
	up.Type = "keyup"
	return []Event{down, up}
}

// DOMEvents synthesizes events in page script through Host.Dispatch.
type DOMEvents struct {
	Host Host
}

func (d DOMEvents) Click(ctx context.Context, target Handle) error {
	return d.dispatch(ctx, target, ClickSequence())
}

func (d DOMEvents) Key(ctx context.Context, target Handle, key Key, alt bool) error {
	return d.dispatch(ctx, target, KeySequence(key, alt))
}

// dispatch sends evs in order. A target that leaves the document part way
// through, like a modal closed by its own keydown, ends the sequence early
// without error.
func (d DOMEvents) dispatch(ctx context.Context, target Handle, evs []Event) error {
	for i, ev := range evs {
		if err := d.Host.Dispatch(ctx, target, ev); err != nil {
			if i > 0 && errors.Is(err, ErrStaleHandle) {
				return nil
			}
			return err
		}
	}
	return nil
}
