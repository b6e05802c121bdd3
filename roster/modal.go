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
	"fmt"
	"strings"
)

// Session is an open Edit Sections modal.
type Session struct {
	Handle Handle
}

// RowResult describes the work done for one row.
type RowResult struct {
	Label string
	// Removed is false when the section was already absent from the modal.
	Removed bool
	Chosen  Match
	// Trace lists the workflow states the row went through.
	Trace []State
}

// ModalController runs the remove/re-add workflow for one row at a time.
type ModalController struct {
	Host      Host
	Events    EventSynthesizer
	Selectors Selectors
	Config    Config
	Log       Logger
}

func (m *ModalController) logf(format string, args ...any) {
	if m.Log != nil {
		m.Log.Logf(format, args...)
	}
}

// ProcessRow removes label from the row, saves, then adds it back through the
// section picker and saves again. A failure in any step ends the workflow
// for this row and is returned as a *RowError.
func (m *ModalController) ProcessRow(ctx context.Context, row Handle, label string) (RowResult, error) {
	res := RowResult{Label: label, Trace: []State{StateClosed}}
	state := StateClosed
	enter := func(s State) {
		state = s
		res.Trace = append(res.Trace, s)
	}
	fail := func(err error) (RowResult, error) {
		failedIn := state
		enter(StateFailed)
		m.dismissQuietly(ctx)
		return res, &RowError{Label: label, State: failedIn, Err: err}
	}

	enter(StateOpeningMenu)
	s, err := m.OpenEditSurface(ctx, row)
	if err != nil {
		return fail(err)
	}
	enter(StateModalOpenForRemoval)
	enter(StateRemoving)
	if res.Removed, err = m.RemoveTargetSection(ctx, s, label); err != nil {
		return fail(err)
	}
	if !res.Removed {
		m.logf("Section %q already absent from modal", label)
	}
	enter(StateSaving)
	if err := m.Save(ctx, s); err != nil {
		return fail(err)
	}
	enter(StateClosed)

	enter(StateOpeningMenuAgain)
	if s, err = m.OpenEditSurface(ctx, row); err != nil {
		return fail(err)
	}
	enter(StateModalOpenForAdd)
	if res.Chosen, err = m.selectFromPicker(ctx, s, label, enter); err != nil {
		return fail(err)
	}
	enter(StateSaving)
	if err := m.Save(ctx, s); err != nil {
		return fail(err)
	}
	enter(StateDone)
	if m.Config.DryRun {
		m.dismissQuietly(ctx)
	}
	return res, nil
}

// Dismiss closes an open modal without saving, so the next row starts from a
// closed state. It is a no-op when no modal is open.
func (m *ModalController) Dismiss(ctx context.Context) error {
	hs, err := m.Host.Query(ctx, Document, m.Selectors.Modal)
	if err != nil {
		return err
	}
	modal, ok := first(hs)
	if !ok {
		return nil
	}
	if err := m.Events.Key(ctx, modal, KeyEscape, false); err != nil {
		return err
	}
	return WaitForAbsence(ctx, "edit sections modal to be dismissed", m.Config.ModalCloseTimeout, m.Config.PollInterval,
		func(ctx context.Context) (bool, error) {
			hs, err := m.Host.Query(ctx, Document, m.Selectors.Modal)
			return len(hs) > 0, err
		})
}

func (m *ModalController) dismissQuietly(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := m.Dismiss(ctx); err != nil {
		m.logf("Could not dismiss modal: %v", err)
	}
}

// OpenEditSurface opens the row's action menu, picks "Edit Sections" and
// waits for the modal.
func (m *ModalController) OpenEditSurface(ctx context.Context, row Handle) (Session, error) {
	sel := m.Selectors
	triggers, err := m.Host.Query(ctx, row, sel.MenuTrigger)
	if err != nil {
		return Session{}, err
	}
	trigger, ok := first(triggers)
	if !ok {
		return Session{}, notFound("menu trigger")
	}
	if err := m.Host.ScrollIntoView(ctx, trigger, "center"); err != nil {
		return Session{}, err
	}
	if err := m.Events.Click(ctx, trigger); err != nil {
		return Session{}, err
	}
	if err := pause(ctx, m.Config.Settle.Menu); err != nil {
		return Session{}, err
	}

	action, err := m.editAction(ctx, row)
	if err != nil {
		return Session{}, err
	}
	if err := m.Events.Click(ctx, action); err != nil {
		return Session{}, err
	}

	modal, err := WaitForPresence(ctx, "edit sections modal", m.Config.ModalOpenTimeout, m.Config.PollInterval,
		func(ctx context.Context) (Handle, bool, error) {
			hs, err := m.Host.Query(ctx, Document, sel.Modal)
			if err != nil {
				return Document, false, err
			}
			h, ok := first(hs)
			return h, ok, nil
		})
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return Session{}, &ElementNotFoundError{What: "edit sections modal", Err: err}
		}
		return Session{}, err
	}

	// Leftover menus keep focus otherwise.
	if err := m.Host.Dispatch(ctx, Document, KeySequence(KeyEscape, false)[0]); err != nil {
		return Session{}, err
	}
	if err := pause(ctx, m.Config.Settle.Escape); err != nil {
		return Session{}, err
	}
	return Session{Handle: modal}, nil
}

// editAction prefers the row's inline menu item and falls back to the first
// visible item of a floating menu.
func (m *ModalController) editAction(ctx context.Context, row Handle) (Handle, error) {
	inline, err := m.Host.Query(ctx, row, m.Selectors.RowEditAction)
	if err != nil {
		return Document, err
	}
	if h, ok := first(inline); ok {
		visible, err := m.Host.Visible(ctx, h)
		if err != nil {
			return Document, err
		}
		if visible {
			return h, nil
		}
	}
	popup, err := m.Host.Query(ctx, Document, m.Selectors.PopupEditAction)
	if err != nil {
		return Document, err
	}
	for _, h := range popup {
		visible, err := m.Host.Visible(ctx, h)
		if err != nil {
			return Document, err
		}
		if visible {
			return h, nil
		}
	}
	return Document, notFound("edit sections menu item")
}

// RemoveTargetSection clicks the remove control of the assigned section
// containing label. It reports false, without error, when no assigned section
// matches.
func (m *ModalController) RemoveTargetSection(ctx context.Context, s Session, label string) (bool, error) {
	entry, ok, err := m.assignedEntry(ctx, s, label)
	if err != nil || !ok {
		return false, err
	}
	buttons, err := m.Host.Query(ctx, entry, m.Selectors.RemoveButton)
	if err != nil {
		return false, err
	}
	button, ok := first(buttons)
	if !ok {
		return false, notFound(fmt.Sprintf("remove button for section %q", label))
	}
	if err := m.Events.Click(ctx, button); err != nil {
		return false, err
	}
	return true, pause(ctx, m.Config.Settle.Remove)
}

// assignedEntry finds the first assigned section whose text contains label,
// ignoring case.
func (m *ModalController) assignedEntry(ctx context.Context, s Session, label string) (Handle, bool, error) {
	want := strings.ToLower(label)
	entries, err := m.Host.Query(ctx, s.Handle, m.Selectors.AssignedEntry)
	if err != nil {
		return Document, false, err
	}
	for _, e := range entries {
		text, err := m.Host.Text(ctx, e)
		if err != nil {
			return Document, false, err
		}
		if strings.Contains(strings.ToLower(text), want) {
			return e, true, nil
		}
	}
	return Document, false, nil
}

// Save clicks Save and waits for the modal to close. In dry-run mode it does
// nothing and the modal stays open.
func (m *ModalController) Save(ctx context.Context, s Session) error {
	if m.Config.DryRun {
		m.logf("[DRY_RUN] Would click Save")
		return nil
	}
	buttons, err := m.Host.Query(ctx, s.Handle, m.Selectors.SaveButton)
	if err != nil {
		return err
	}
	button, ok := first(buttons)
	if !ok {
		return notFound("save button")
	}
	if err := m.Events.Click(ctx, button); err != nil {
		return err
	}
	err = WaitForAbsence(ctx, "edit sections modal to close", m.Config.ModalCloseTimeout, m.Config.PollInterval,
		func(ctx context.Context) (bool, error) {
			hs, err := m.Host.Query(ctx, Document, m.Selectors.Modal)
			return len(hs) > 0, err
		})
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return &SaveTimeoutError{Err: err}
		}
		return err
	}
	return pause(ctx, m.Config.Settle.Save)
}

// SelectFromPicker types label into the section field, opens the option
// list, clicks the best option and checks that the section was assigned.
func (m *ModalController) SelectFromPicker(ctx context.Context, s Session, label string) (Match, error) {
	return m.selectFromPicker(ctx, s, label, func(State) {})
}

func (m *ModalController) selectFromPicker(ctx context.Context, s Session, label string, enter func(State)) (Match, error) {
	sel := m.Selectors
	fields, err := m.Host.Query(ctx, s.Handle, sel.SectionInput)
	if err != nil {
		return Match{}, err
	}
	field, ok := first(fields)
	if !ok {
		return Match{}, notFound("section input")
	}

	enter(StateTypingLabel)
	if err := m.typeLabel(ctx, field, label); err != nil {
		return Match{}, err
	}

	enter(StateForcingOptionListOpen)
	expanded, err := m.ForceOptionListOpen(ctx, field)
	if err != nil {
		return Match{}, err
	}
	if !expanded {
		m.logf("Option list for %q not marked expanded; waiting for it anyway", label)
	}
	list, err := WaitForPresence(ctx, "section option list", m.Config.OptionListTimeout, m.Config.PollInterval,
		func(ctx context.Context) (Handle, bool, error) {
			return m.optionList(ctx, field)
		})
	if err != nil {
		return Match{}, err
	}

	enter(StateSelecting)
	options, labels, err := m.optionLabels(ctx, list)
	if err != nil {
		return Match{}, err
	}
	match, ok := SelectBest(labels, label)
	if !ok {
		return Match{}, ErrNoOptions
	}
	if match.Tier > TierSubstring {
		m.logf("No direct match for %q; picked %q by %s rule", label, match.Label, match.Tier)
	}
	target := options[match.Index]
	if err := m.Host.ScrollIntoView(ctx, target, "nearest"); err != nil {
		return match, err
	}
	if err := m.Events.Click(ctx, target); err != nil {
		return match, err
	}
	if err := pause(ctx, m.Config.Settle.Select); err != nil {
		return match, err
	}

	enter(StateVerifying)
	_, assigned, err := m.assignedEntry(ctx, s, label)
	if err != nil {
		return match, err
	}
	if !assigned {
		sample := labels[:min(len(labels), 8)]
		return match, &VerificationError{
			Label:   label,
			Chosen:  match.Label,
			Sample:  sample,
			Closest: Closest(labels, label),
		}
	}
	return match, nil
}

// typeLabel clears the field and enters label, signalling an input event
// each time.
func (m *ModalController) typeLabel(ctx context.Context, field Handle, label string) error {
	if err := m.Host.Focus(ctx, field); err != nil {
		return err
	}
	if err := m.Host.SetValue(ctx, field, ""); err != nil {
		return err
	}
	if err := pause(ctx, m.Config.Settle.Clear); err != nil {
		return err
	}
	if err := m.Host.SetValue(ctx, field, label); err != nil {
		return err
	}
	return pause(ctx, m.Config.Settle.Type)
}

// ForceOptionListOpen presses Alt+ArrowDown, then plain ArrowDown, up to
// Config.ExpandAttempts times each, stopping once the field reports itself
// expanded. It reports whether the field was marked expanded; false is not an
// error.
func (m *ModalController) ForceOptionListOpen(ctx context.Context, field Handle) (bool, error) {
	if err := m.Host.Focus(ctx, field); err != nil {
		return false, err
	}
	if err := m.Events.Click(ctx, field); err != nil {
		return false, err
	}
	if err := pause(ctx, m.Config.Settle.Focus); err != nil {
		return false, err
	}
	for _, alt := range []bool{true, false} {
		for range m.Config.ExpandAttempts {
			if err := m.Events.Key(ctx, field, KeyArrowDown, alt); err != nil {
				return false, err
			}
			if err := pause(ctx, m.Config.Settle.Key); err != nil {
				return false, err
			}
			v, _, err := m.Host.Attr(ctx, field, m.Selectors.ExpandedAttr)
			if err != nil {
				return false, err
			}
			if v == "true" {
				return true, nil
			}
		}
	}
	return false, nil
}

// optionList resolves the list linked to field: the field's description
// reference, with its suffix swapped, is the list's id.
func (m *ModalController) optionList(ctx context.Context, field Handle) (Handle, bool, error) {
	sel := m.Selectors
	desc, ok, err := m.Host.Attr(ctx, field, sel.DescriptionAttr)
	if err != nil || !ok || desc == "" {
		return Document, false, err
	}
	id := strings.Replace(desc, sel.DescriptionSuffix, sel.ListSuffix, 1)
	list, ok, err := m.Host.ByID(ctx, id)
	if err != nil || !ok {
		return Document, false, err
	}
	role, _, err := m.Host.Attr(ctx, list, "role")
	if err != nil {
		return Document, false, err
	}
	return list, role == "listbox", nil
}

func (m *ModalController) optionLabels(ctx context.Context, list Handle) ([]Handle, []string, error) {
	options, err := m.Host.Query(ctx, list, m.Selectors.Option)
	if err != nil {
		return nil, nil, err
	}
	if len(options) == 0 {
		return nil, nil, ErrNoOptions
	}
	labels := make([]string, len(options))
	for i, o := range options {
		text, err := m.Host.Text(ctx, o)
		if err != nil {
			return nil, nil, err
		}
		labels[i] = normalizeSpace(text)
	}
	return options, labels, nil
}
