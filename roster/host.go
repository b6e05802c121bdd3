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

// Package roster drives a roster-management web view to re-assign the
// alphabetic section of every pending enrollment through the view's own
// section picker.
package roster

import (
	"context"
	"log"
)

// Handle addresses one element in the host view. A Host assigns the handle
// the first time it returns a node and keeps it bound to that node for as long
// as the node lives, so handles double as row identities.
type Handle string

// Document addresses the document itself.
const Document Handle = ""

// EventKind selects the constructor used for a synthetic event.
type EventKind int

const (
	PointerEvent EventKind = iota
	MouseEvent
	KeyboardEvent
)

// Event is one primitive interaction event. Key, Code, KeyCode and Alt are
// only meaningful for keyboard events.
type Event struct {
	Kind    EventKind
	Type    string
	Key     string
	Code    string
	KeyCode int
	Alt     bool
}

// Viewport is the scroll geometry of the document.
type Viewport struct {
	ScrollHeight int `json:"scrollHeight"`
	InnerHeight  int `json:"innerHeight"`
	ScrollY      int `json:"scrollY"`
}

// AtBottom reports whether the view is scrolled to within tolerance pixels of
// the end of the document.
func (v Viewport) AtBottom(tolerance int) bool {
	return v.InnerHeight+v.ScrollY >= v.ScrollHeight-tolerance
}

// Host is the rendered view of the roster application. Every read and write
// the engine performs goes through it.
type Host interface {
	// Query returns the elements under scope matching selector, in document
	// order.
	Query(ctx context.Context, scope Handle, selector string) ([]Handle, error)
	// ByID returns the element with the given id attribute.
	ByID(ctx context.Context, id string) (Handle, bool, error)
	// Text returns the rendered text of the element.
	Text(ctx context.Context, h Handle) (string, error)
	// Attr returns the value of the named attribute.
	Attr(ctx context.Context, h Handle, name string) (string, bool, error)
	// Visible reports whether the element participates in layout.
	Visible(ctx context.Context, h Handle) (bool, error)
	Focus(ctx context.Context, h Handle) error
	// SetValue assigns the value of a form field and signals an input event.
	SetValue(ctx context.Context, h Handle, value string) error
	// ScrollIntoView scrolls the element into view. block is one of "start",
	// "center", "end" or "nearest".
	ScrollIntoView(ctx context.Context, h Handle, block string) error
	// Dispatch delivers ev to the element. It bubbles and is cancelable.
	Dispatch(ctx context.Context, h Handle, ev Event) error
	ScrollBy(ctx context.Context, dy int) error
	Viewport(ctx context.Context) (Viewport, error)
}

// Logger interface allows passing *testing.T or a *log.Logger adapter.
type Logger interface {
	Logf(format string, args ...any)
}

// LoggerFunc adapts a printf-style function to Logger.
type LoggerFunc func(format string, args ...any)

func (f LoggerFunc) Logf(format string, args ...any) {
	f(format, args...)
}

// StdLogger wraps l as a Logger.
func StdLogger(l *log.Logger) Logger {
	return LoggerFunc(l.Printf)
}

func first(hs []Handle) (Handle, bool) {
	if len(hs) == 0 {
		return Document, false
	}
	return hs[0], true
}
