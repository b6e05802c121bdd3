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
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"
)

// fakeEl is one node of the in-memory view. It matches a selector when the
// selector string is in sels.
type fakeEl struct {
	h        Handle
	name     string
	sels     map[string]bool
	attrs    map[string]string
	text     string
	value    string
	hidden   bool
	parent   *fakeEl
	children []*fakeEl

	recent  []string
	onClick func()
	onKey   func(Event)
	onInput func(string)
}

func (e *fakeEl) textContent() string {
	parts := []string{}
	if e.text != "" {
		parts = append(parts, e.text)
	}
	for _, c := range e.children {
		if t := c.textContent(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func (e *fakeEl) attached() bool {
	for p := e; p != nil; p = p.parent {
		if p.name == "document" {
			return true
		}
	}
	return false
}

// fakeHost implements Host over a tree of fakeEl. Clicks only take effect
// when the full pointerdown/mousedown/mouseup/click burst arrives, and key
// handlers only see keydown.
type fakeHost struct {
	next     int
	doc      *fakeEl
	byHandle map[Handle]*fakeEl
	events   []string

	scrollY      int
	innerHeight  int
	scrollHeight func() int
	onScroll     func()

	queries  int
	queryErr error
	// hooks run before each Query; a hook returning true is dropped.
	hooks []func() bool
}

func newFakeHost() *fakeHost {
	h := &fakeHost{byHandle: map[Handle]*fakeEl{}, innerHeight: 400}
	h.doc = &fakeEl{h: Document, name: "document", sels: map[string]bool{}, attrs: map[string]string{}}
	h.byHandle[Document] = h.doc
	h.scrollHeight = func() int { return h.innerHeight }
	return h
}

func (f *fakeHost) el(parent *fakeEl, name string, sels ...string) *fakeEl {
	f.next++
	e := &fakeEl{
		h:     Handle(fmt.Sprintf("h%d", f.next)),
		name:  name,
		sels:  map[string]bool{},
		attrs: map[string]string{},
	}
	for _, s := range sels {
		e.sels[s] = true
	}
	f.byHandle[e.h] = e
	if parent != nil {
		e.parent = parent
		parent.children = append(parent.children, e)
	}
	return e
}

func (f *fakeHost) remove(e *fakeEl) {
	if e == nil || e.parent == nil {
		return
	}
	p := e.parent
	p.children = slices.DeleteFunc(p.children, func(c *fakeEl) bool { return c == e })
	e.parent = nil
}

func (f *fakeHost) get(h Handle) (*fakeEl, error) {
	e, ok := f.byHandle[h]
	if !ok {
		return nil, fmt.Errorf("no element for handle %q", h)
	}
	if !e.attached() {
		return nil, fmt.Errorf("%w %s", ErrStaleHandle, h)
	}
	return e, nil
}

func (f *fakeHost) Query(ctx context.Context, scope Handle, selector string) ([]Handle, error) {
	f.queries++
	f.hooks = slices.DeleteFunc(f.hooks, func(hook func() bool) bool { return hook() })
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	root, err := f.get(scope)
	if err != nil {
		return nil, err
	}
	var out []Handle
	var walk func(e *fakeEl)
	walk = func(e *fakeEl) {
		for _, c := range e.children {
			if c.sels[selector] {
				out = append(out, c.h)
			}
			walk(c)
		}
	}
	walk(root)
	return out, nil
}

func (f *fakeHost) ByID(ctx context.Context, id string) (Handle, bool, error) {
	var found *fakeEl
	var walk func(e *fakeEl)
	walk = func(e *fakeEl) {
		for _, c := range e.children {
			if found == nil && c.attrs["id"] == id {
				found = c
			}
			walk(c)
		}
	}
	walk(f.doc)
	if found == nil {
		return Document, false, nil
	}
	return found.h, true, nil
}

func (f *fakeHost) Text(ctx context.Context, h Handle) (string, error) {
	e, err := f.get(h)
	if err != nil {
		return "", err
	}
	return e.textContent(), nil
}

func (f *fakeHost) Attr(ctx context.Context, h Handle, name string) (string, bool, error) {
	e, err := f.get(h)
	if err != nil {
		return "", false, err
	}
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (f *fakeHost) Visible(ctx context.Context, h Handle) (bool, error) {
	e, err := f.get(h)
	if err != nil {
		return false, err
	}
	return e.attached() && !e.hidden, nil
}

func (f *fakeHost) Focus(ctx context.Context, h Handle) error {
	_, err := f.get(h)
	return err
}

func (f *fakeHost) SetValue(ctx context.Context, h Handle, value string) error {
	e, err := f.get(h)
	if err != nil {
		return err
	}
	e.value = value
	f.events = append(f.events, fmt.Sprintf("input %s %q", e.name, value))
	if e.onInput != nil {
		e.onInput(value)
	}
	return nil
}

func (f *fakeHost) ScrollIntoView(ctx context.Context, h Handle, block string) error {
	_, err := f.get(h)
	return err
}

func (f *fakeHost) Dispatch(ctx context.Context, h Handle, ev Event) error {
	e, err := f.get(h)
	if err != nil {
		return err
	}
	line := ev.Type + " " + e.name
	if ev.Kind == KeyboardEvent {
		line += fmt.Sprintf(" %s/%d", ev.Key, ev.KeyCode)
		if ev.Alt {
			line += " alt"
		}
	}
	f.events = append(f.events, line)

	switch ev.Kind {
	case PointerEvent, MouseEvent:
		e.recent = append(e.recent, ev.Type)
		if ev.Type != "click" {
			return nil
		}
		burst := e.recent
		e.recent = nil
		if len(burst) >= 4 && slices.Equal(burst[len(burst)-4:], []string{"pointerdown", "mousedown", "mouseup", "click"}) && e.onClick != nil {
			e.onClick()
		}
	case KeyboardEvent:
		if ev.Type == "keydown" && e.onKey != nil {
			e.onKey(ev)
		}
	}
	return nil
}

func (f *fakeHost) ScrollBy(ctx context.Context, dy int) error {
	f.events = append(f.events, fmt.Sprintf("scroll %d", dy))
	f.scrollY = max(0, min(f.scrollY+dy, f.scrollHeight()-f.innerHeight))
	if f.onScroll != nil {
		f.onScroll()
	}
	return nil
}

func (f *fakeHost) Viewport(ctx context.Context) (Viewport, error) {
	return Viewport{ScrollHeight: f.scrollHeight(), InnerHeight: f.innerHeight, ScrollY: f.scrollY}, nil
}

// student is one enrollment in the fake roster.
type student struct {
	name     string
	pending  bool
	sections []string
}

// fakeRoster models the roster page on top of fakeHost: rows with an action
// menu, the Edit Sections modal, and a combobox whose option list opens on
// ArrowDown.
type fakeRoster struct {
	host     *fakeHost
	sel      Selectors
	students []*student
	rows     []*fakeEl
	batch    int

	// catalog is the full list of sections the picker can offer.
	catalog []string
	// options, if set, replaces the filtered catalog in the option list.
	options []string
	// popupOnly renders the Edit Sections item only in a floating menu.
	popupOnly bool
	// plainArrowOnly ignores Alt+ArrowDown.
	plainArrowOnly bool
	// neverExpand never marks the field expanded but still shows the list.
	neverExpand bool
	// ignoreSelect makes option clicks do nothing.
	ignoreSelect bool
	// stuckModal keeps the modal open after Save.
	stuckModal bool
	// closeAfterQueries delays the modal close by this many host queries.
	closeAfterQueries int

	modal   *fakeEl
	list    *fakeEl
	draft   []string
	actions []string
}

const fakeRowHeight = 40

func newFakeRoster(students ...*student) *fakeRoster {
	host := newFakeHost()
	r := &fakeRoster{host: host, sel: DefaultSelectors(), students: students, batch: len(students)}
	host.scrollHeight = func() int { return 200 + len(r.rows)*fakeRowHeight }
	host.onScroll = func() {
		if host.scrollY+host.innerHeight >= host.scrollHeight()-100 {
			r.loadMore()
		}
	}
	return r
}

// render shows the first batch of rows.
func (r *fakeRoster) render() *fakeRoster {
	r.loadMore()
	return r
}

func (r *fakeRoster) loadMore() {
	end := min(len(r.rows)+r.batch, len(r.students))
	for i := len(r.rows); i < end; i++ {
		r.renderRow(i)
	}
}

func (r *fakeRoster) logf(format string, args ...any) {
	r.actions = append(r.actions, fmt.Sprintf(format, args...))
}

func (r *fakeRoster) renderRow(i int) {
	h, sel, st := r.host, r.sel, r.students[i]
	row := h.el(h.doc, fmt.Sprintf("row%d", i), sel.Row)
	r.rows = append(r.rows, row)
	if st.pending {
		h.el(row, "pending", sel.Pending).text = "Pending"
	}
	cell := h.el(row, "sections")
	for _, s := range st.sections {
		h.el(cell, "section", sel.SectionLabel).text = "  " + s + "\n"
	}
	kebab := h.el(row, fmt.Sprintf("row%d.kebab", i), sel.MenuTrigger)
	var item *fakeEl
	if r.popupOnly {
		item = h.el(h.doc, fmt.Sprintf("popup%d.edit", i), sel.PopupEditAction)
	} else {
		item = h.el(row, fmt.Sprintf("row%d.edit", i), sel.RowEditAction)
	}
	item.hidden = true
	kebab.onClick = func() {
		r.logf("menu %s", st.name)
		item.hidden = false
	}
	item.onClick = func() {
		item.hidden = true
		r.openModal(st)
	}
}

func (r *fakeRoster) openModal(st *student) {
	if r.modal != nil {
		r.logf("modal %s (already open)", st.name)
		return
	}
	r.logf("modal %s", st.name)
	h, sel := r.host, r.sel
	r.draft = slices.Clone(st.sections)
	m := h.el(h.doc, "modal", sel.Modal)
	r.modal = m
	m.onKey = func(ev Event) {
		if ev.KeyCode == 27 && !r.stuckModal {
			r.logf("dismiss %s", st.name)
			r.closeModal(0)
		}
	}
	entries := h.el(m, "user_sections")
	var renderEntries func()
	renderEntries = func() {
		for _, c := range slices.Clone(entries.children) {
			h.remove(c)
		}
		for _, s := range r.draft {
			li := h.el(entries, "entry", sel.AssignedEntry)
			li.text = s
			btn := h.el(h.el(li, "remove-span"), "remove "+s, sel.RemoveButton)
			btn.onClick = func() {
				r.logf("remove %s", s)
				r.draft = slices.DeleteFunc(r.draft, func(x string) bool { return x == s })
				renderEntries()
			}
		}
	}
	renderEntries()

	input := h.el(m, "input", sel.SectionInput)
	input.attrs[sel.DescriptionAttr] = "Selectable___7-description"
	input.attrs[sel.ExpandedAttr] = "false"
	input.onKey = func(ev Event) {
		if ev.KeyCode != 40 || (ev.Alt && r.plainArrowOnly) {
			return
		}
		if !r.neverExpand {
			input.attrs[sel.ExpandedAttr] = "true"
		}
		if r.list != nil {
			return
		}
		r.logf("expand %q", input.value)
		list := h.el(h.doc, "listbox")
		list.attrs["id"] = "Selectable___7-list"
		list.attrs["role"] = "listbox"
		r.list = list
		for _, o := range r.offered(input.value) {
			opt := h.el(list, "option "+o, sel.Option)
			opt.text = o
			opt.onClick = func() {
				r.logf("select %s", o)
				if !r.ignoreSelect {
					r.draft = append(r.draft, o)
					renderEntries()
				}
				h.remove(r.list)
				r.list = nil
				input.attrs[sel.ExpandedAttr] = "false"
			}
		}
	}

	save := h.el(m, "save", sel.SaveButton)
	save.onClick = func() {
		r.logf("save %s [%s]", st.name, strings.Join(r.draft, ", "))
		if r.stuckModal {
			return
		}
		st.sections = slices.Clone(r.draft)
		r.closeModal(r.closeAfterQueries)
	}
}

func (r *fakeRoster) closeModal(afterQueries int) {
	if afterQueries <= 0 {
		r.host.remove(r.modal)
		r.host.remove(r.list)
		r.modal, r.list = nil, nil
		return
	}
	deadline := r.host.queries + afterQueries
	r.host.hooks = append(r.host.hooks, func() bool {
		if r.host.queries < deadline {
			return false
		}
		r.host.remove(r.modal)
		r.host.remove(r.list)
		r.modal, r.list = nil, nil
		return true
	})
}

func (r *fakeRoster) offered(value string) []string {
	if r.options != nil {
		return r.options
	}
	token := strings.ToLower(leadingToken(strings.ToLower(value)))
	var out []string
	for _, c := range r.catalog {
		if strings.Contains(strings.ToLower(c), token) {
			out = append(out, c)
		}
	}
	return out
}

// testConfig is DefaultConfig without pauses and with short timeouts.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Settle = Settle{}
	cfg.ScrollPause = 0
	cfg.PollInterval = time.Millisecond
	cfg.ModalOpenTimeout = 200 * time.Millisecond
	cfg.ModalCloseTimeout = 200 * time.Millisecond
	cfg.OptionListTimeout = 200 * time.Millisecond
	return cfg
}

func (r *fakeRoster) controller(t *testing.T, cfg Config) *ModalController {
	return &ModalController{
		Host:      r.host,
		Events:    DOMEvents{Host: r.host},
		Selectors: r.sel,
		Config:    cfg,
		Log:       t,
	}
}
