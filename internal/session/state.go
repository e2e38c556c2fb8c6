/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package session

// Selection state machine. Transition is a pure function of the previous
// state and one input event; no ambient globals are read or written, which
// keeps every transition unit-testable.

// State is the current selection state. Zero value is Idle.
type State struct {
	// Selected is the key of the selected element, empty when idle.
	Selected string
	// Editing is true while the selected text element is in text-edit mode.
	Editing bool
}

// Idle is the nothing-selected state.
var Idle = State{}

// Event is a closed set of interaction inputs.
type Event interface{ isEvent() }

// PointerDownElement fires on pointer-down inside an element's hit region.
type PointerDownElement struct{ Key string }

// PointerDownBackground fires on pointer-down on empty canvas.
type PointerDownBackground struct{}

// PanelInteraction fires when a property-panel control (font picker, color
// picker, slider) is used. Panels live outside the canvas hit region, so
// this never clears the selection.
type PanelInteraction struct{}

// BeginTextEdit fires on the gesture that opens inline text editing
// (double-click on a text element).
type BeginTextEdit struct{ Key string }

// Escape fires on the Escape key.
type Escape struct{}

func (PointerDownElement) isEvent()    {}
func (PointerDownBackground) isEvent() {}
func (PanelInteraction) isEvent()      {}
func (BeginTextEdit) isEvent()         {}
func (Escape) isEvent()                {}

// Transition returns the state following ev. Unknown events leave the state
// unchanged.
func Transition(prev State, ev Event) State {
	switch e := ev.(type) {
	case PointerDownElement:
		return State{Selected: e.Key}
	case PointerDownBackground:
		return Idle
	case PanelInteraction:
		return prev
	case BeginTextEdit:
		return State{Selected: e.Key, Editing: true}
	case Escape:
		// Escape first leaves text-edit mode, then clears selection; both
		// collapse to Idle because a second Escape from Selected also
		// deselects.
		return Idle
	}
	return prev
}
