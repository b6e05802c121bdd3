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

// Package cdp implements the roster Host over the Chrome DevTools Protocol.
package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/ttbt-io/rosterfix/roster"
)

// Host is a roster.Host backed by a chromedp tab. The context passed to each
// method must descend from the tab's chromedp context.
type Host struct{}

var _ roster.Host = Host{}

// call invokes fn on the page-side helper with JSON-encoded args and decodes
// the result into res, which may be nil.
func (Host) call(ctx context.Context, res any, fn string, args ...any) error {
	if args == nil {
		args = []any{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return err
	}
	expr := fmt.Sprintf("%s.%s(...%s)", helperJS, fn, b)
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, res)); err != nil {
		if strings.Contains(err.Error(), staleMarker) {
			return fmt.Errorf("%s: %w: %v", fn, roster.ErrStaleHandle, err)
		}
		return fmt.Errorf("%s: %w", fn, err)
	}
	return nil
}

func (h Host) Query(ctx context.Context, scope roster.Handle, selector string) ([]roster.Handle, error) {
	var res []roster.Handle
	if err := h.call(ctx, &res, "query", scope, selector); err != nil {
		return nil, err
	}
	return res, nil
}

func (h Host) ByID(ctx context.Context, id string) (roster.Handle, bool, error) {
	var res struct {
		H  roster.Handle `json:"h"`
		OK bool          `json:"ok"`
	}
	if err := h.call(ctx, &res, "byId", id); err != nil {
		return roster.Document, false, err
	}
	return res.H, res.OK, nil
}

func (h Host) Text(ctx context.Context, el roster.Handle) (string, error) {
	var s string
	err := h.call(ctx, &s, "text", el)
	return s, err
}

func (h Host) Attr(ctx context.Context, el roster.Handle, name string) (string, bool, error) {
	var res struct {
		V  string `json:"v"`
		OK bool   `json:"ok"`
	}
	if err := h.call(ctx, &res, "attr", el, name); err != nil {
		return "", false, err
	}
	return res.V, res.OK, nil
}

func (h Host) Visible(ctx context.Context, el roster.Handle) (bool, error) {
	var v bool
	err := h.call(ctx, &v, "visible", el)
	return v, err
}

func (h Host) Focus(ctx context.Context, el roster.Handle) error {
	return h.call(ctx, nil, "focus", el)
}

func (h Host) SetValue(ctx context.Context, el roster.Handle, value string) error {
	return h.call(ctx, nil, "setValue", el, value)
}

func (h Host) ScrollIntoView(ctx context.Context, el roster.Handle, block string) error {
	return h.call(ctx, nil, "scrollIntoView", el, block)
}

func (h Host) Dispatch(ctx context.Context, el roster.Handle, ev roster.Event) error {
	return h.call(ctx, nil, "dispatch", el, wireEvent(ev))
}

func (h Host) ScrollBy(ctx context.Context, dy int) error {
	return h.call(ctx, nil, "scrollBy", dy)
}

func (h Host) Viewport(ctx context.Context) (roster.Viewport, error) {
	var v roster.Viewport
	err := h.call(ctx, &v, "viewport")
	return v, err
}

// Center returns the viewport coordinates of the middle of el.
func (h Host) Center(ctx context.Context, el roster.Handle) (x, y float64, err error) {
	var p struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := h.call(ctx, &p, "center", el); err != nil {
		return 0, 0, err
	}
	return p.X, p.Y, nil
}

type jsEvent struct {
	Kind    string `json:"kind"`
	Type    string `json:"type"`
	Key     string `json:"key,omitempty"`
	Code    string `json:"code,omitempty"`
	KeyCode int    `json:"keyCode,omitempty"`
	Alt     bool   `json:"alt,omitempty"`
}

func wireEvent(ev roster.Event) jsEvent {
	out := jsEvent{Type: ev.Type, Key: ev.Key, Code: ev.Code, KeyCode: ev.KeyCode, Alt: ev.Alt}
	switch ev.Kind {
	case roster.PointerEvent:
		out.Kind = "pointer"
	case roster.MouseEvent:
		out.Kind = "mouse"
	default:
		out.Kind = "keyboard"
	}
	return out
}
