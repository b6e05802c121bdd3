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

// State is a step of the per-row workflow.
type State int

const (
	StateClosed State = iota
	StateOpeningMenu
	StateModalOpenForRemoval
	StateRemoving
	StateSaving
	StateOpeningMenuAgain
	StateModalOpenForAdd
	StateTypingLabel
	StateForcingOptionListOpen
	StateSelecting
	StateVerifying
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateClosed:                "Closed",
	StateOpeningMenu:           "OpeningMenu",
	StateModalOpenForRemoval:   "ModalOpenForRemoval",
	StateRemoving:              "Removing",
	StateSaving:                "Saving",
	StateOpeningMenuAgain:      "OpeningMenuAgain",
	StateModalOpenForAdd:       "ModalOpenForAdd",
	StateTypingLabel:           "TypingLabel",
	StateForcingOptionListOpen: "ForcingOptionListOpen",
	StateSelecting:             "Selecting",
	StateVerifying:             "Verifying",
	StateDone:                  "Done",
	StateFailed:                "Failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}
