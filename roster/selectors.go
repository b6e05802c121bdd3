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
	"reflect"

	"go.yaml.in/yaml/v3"
)

// Selectors are the structural queries that locate the controls of the roster
// view. The defaults match the Canvas "People" page.
type Selectors struct {
	Row          string `yaml:"row" json:"row"`
	Pending      string `yaml:"pending" json:"pending"`
	SectionLabel string `yaml:"sectionLabel" json:"sectionLabel"`

	MenuTrigger     string `yaml:"menuTrigger" json:"menuTrigger"`
	RowEditAction   string `yaml:"rowEditAction" json:"rowEditAction"`
	PopupEditAction string `yaml:"popupEditAction" json:"popupEditAction"`

	Modal         string `yaml:"modal" json:"modal"`
	SectionInput  string `yaml:"sectionInput" json:"sectionInput"`
	SaveButton    string `yaml:"saveButton" json:"saveButton"`
	AssignedEntry string `yaml:"assignedEntry" json:"assignedEntry"`
	RemoveButton  string `yaml:"removeButton" json:"removeButton"`
	Option        string `yaml:"option" json:"option"`

	// DescriptionAttr names the attribute on the section input whose value,
	// with DescriptionSuffix replaced by ListSuffix, is the id of the option
	// list.
	DescriptionAttr   string `yaml:"descriptionAttr" json:"descriptionAttr"`
	DescriptionSuffix string `yaml:"descriptionSuffix" json:"descriptionSuffix"`
	ListSuffix        string `yaml:"listSuffix" json:"listSuffix"`
	ExpandedAttr      string `yaml:"expandedAttr" json:"expandedAttr"`
}

// DefaultSelectors returns the selectors for the Canvas roster.
func DefaultSelectors() Selectors {
	return Selectors{
		Row:          "tr.rosterUser",
		Pending:      `span.label.label-info[title*="not yet accepted the invitation"]`,
		SectionLabel: `td[data-testid='section-column-cell'] .section`,

		MenuTrigger:     "a.al-trigger.al-trigger-gray",
		RowEditAction:   "ul.al-options a[data-event='editSections']",
		PopupEditAction: "ul.al-options[role='menu'] a[data-event='editSections']",

		Modal:         "span[role='dialog'][aria-label='Edit Sections']",
		SectionInput:  "input[data-testid='section-input']",
		SaveButton:    "button[data-testid='save-button']",
		AssignedEntry: "#user_sections li",
		RemoveButton:  "span[data-testid^='remove-section-'] button",
		Option:        "span[role='option']",

		DescriptionAttr:   "aria-describedby",
		DescriptionSuffix: "-description",
		ListSuffix:        "-list",
		ExpandedAttr:      "aria-expanded",
	}
}

// ParseSelectors reads a YAML selector profile. Keys missing from the profile
// keep their default value.
func ParseSelectors(data []byte) (Selectors, error) {
	s := DefaultSelectors()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Selectors{}, fmt.Errorf("parsing selectors: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Selectors{}, err
	}
	return s, nil
}

// MarshalSelectors renders s as a YAML profile.
func MarshalSelectors(s Selectors) ([]byte, error) {
	return yaml.Marshal(s)
}

// Validate reports every empty selector.
func (s Selectors) Validate() error {
	var errs []error
	v := reflect.ValueOf(s)
	t := v.Type()
	for i := range t.NumField() {
		if v.Field(i).String() == "" {
			errs = append(errs, fmt.Errorf("selector %q is empty", t.Field(i).Tag.Get("yaml")))
		}
	}
	return errors.Join(errs...)
}
