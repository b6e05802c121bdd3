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

package cdp

import (
	"context"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

	"github.com/ttbt-io/rosterfix/roster"
)

// InputEvents dispatches trusted input through the DevTools Input domain.
// Events sent to the document fall back to page-script events because the
// browser routes keys to the focused element only.
type InputEvents struct {
	Host Host
}

var _ roster.EventSynthesizer = InputEvents{}

func (e InputEvents) Click(ctx context.Context, target roster.Handle) error {
	if target == roster.Document {
		return roster.DOMEvents{Host: e.Host}.Click(ctx, target)
	}
	if err := e.Host.ScrollIntoView(ctx, target, "nearest"); err != nil {
		return err
	}
	x, y, err := e.Host.Center(ctx, target)
	if err != nil {
		return err
	}
	return chromedp.Run(ctx,
		input.DispatchMouseEvent(input.MouseMoved, x, y),
		input.DispatchMouseEvent(input.MousePressed, x, y).WithButton(input.Left).WithClickCount(1),
		input.DispatchMouseEvent(input.MouseReleased, x, y).WithButton(input.Left).WithClickCount(1),
	)
}

func (e InputEvents) Key(ctx context.Context, target roster.Handle, key roster.Key, alt bool) error {
	if target == roster.Document {
		return roster.DOMEvents{Host: e.Host}.Key(ctx, target, key, alt)
	}
	if err := e.Host.Focus(ctx, target); err != nil {
		return err
	}
	mods := input.ModifierNone
	if alt {
		mods = input.ModifierAlt
	}
	return chromedp.Run(ctx,
		keyEvent(input.KeyRawDown, key, mods),
		keyEvent(input.KeyUp, key, mods),
	)
}

func keyEvent(t input.KeyType, key roster.Key, mods input.Modifier) *input.DispatchKeyEventParams {
	return input.DispatchKeyEvent(t).
		WithKey(key.Name).
		WithCode(key.Code).
		WithWindowsVirtualKeyCode(int64(key.KeyCode)).
		WithNativeVirtualKeyCode(int64(key.KeyCode)).
		WithModifiers(mods)
}
