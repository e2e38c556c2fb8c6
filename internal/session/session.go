/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package session ties the scene model, the snap engine and the history
// manager into one editor session. All methods run on the host's event
// loop: the scheduling model is single-threaded and event-driven, so the
// session carries no locks of its own.
package session

import (
	"fmt"

	"cardcomposer/internal/geom"
	"cardcomposer/internal/history"
	"cardcomposer/internal/scene"
	"cardcomposer/internal/snap"
)

// Session is one open editor working on one scene.
type Session struct {
	Scene *scene.Scene

	hist       *history.Manager
	textHeight scene.HeightFunc
	snapOpts   snap.Options

	state     State
	textFocus bool

	drag   *dragState
	guides []snap.Guide
}

type dragState struct {
	key     string
	size    geom.Size
	preview geom.Pt
}

// New opens a session over the loaded scene. The initial state is committed
// as the history floor so the first edit can be undone.
func New(s *scene.Scene, textHeight scene.HeightFunc) *Session {
	ses := &Session{
		Scene:      s,
		hist:       history.NewManager(0),
		textHeight: textHeight,
		snapOpts:   snap.Options{Threshold: snap.DefaultThreshold},
	}
	ses.hist.Commit(s.Elements())
	return ses
}

// State returns the current selection state.
func (ses *Session) State() State { return ses.state }

// Guides returns the active snap guides for the in-flight drag, if any.
func (ses *Session) Guides() []snap.Guide { return ses.guides }

// History exposes undo/redo availability for UI affordances.
func (ses *Session) History() *history.Manager { return ses.hist }

// SetTextFocus records whether a text-input control currently holds focus.
// While true, keyboard commands are not dispatched to the model so ordinary
// typing is never intercepted.
func (ses *Session) SetTextFocus(focused bool) { ses.textFocus = focused }

// Dispatch routes one interaction event through the state machine.
func (ses *Session) Dispatch(ev Event) {
	next := Transition(ses.state, ev)
	if next.Selected != ses.state.Selected {
		ses.cancelDrag()
	}
	ses.state = next
}

// commit snapshots the element map after a finalized mutation.
func (ses *Session) commit() { ses.hist.Commit(ses.Scene.Elements()) }

// Add inserts an element and records a history snapshot.
func (ses *Session) Add(key string, el scene.Element) error {
	if err := ses.Scene.Add(key, el); err != nil {
		return err
	}
	ses.commit()
	return nil
}

// Remove deletes an element, clears a stale selection and records history.
func (ses *Session) Remove(key string) error {
	if err := ses.Scene.Remove(key); err != nil {
		return err
	}
	if ses.state.Selected == key {
		ses.state = Idle
	}
	ses.commit()
	return nil
}

// Toggle adds or removes a single-instance element and records history.
func (ses *Session) Toggle(key string, el scene.Element) (added bool, err error) {
	added, err = ses.Scene.Toggle(key, el)
	if err != nil {
		return added, err
	}
	if !added && ses.state.Selected == key {
		ses.state = Idle
	}
	ses.commit()
	return added, nil
}

// Update applies a committed property edit (from a panel control) and
// records history. Live previews must use Preview instead.
func (ses *Session) Update(key string, mutate func(*scene.Element)) error {
	if err := ses.Scene.Update(key, mutate); err != nil {
		return err
	}
	ses.commit()
	return nil
}

// Preview applies a non-committing mutation during direct manipulation.
// No history snapshot is taken.
func (ses *Session) Preview(key string, mutate func(*scene.Element)) error {
	return ses.Scene.Update(key, mutate)
}

// SetVisible toggles visibility and records history.
func (ses *Session) SetVisible(key string, visible bool) error {
	if err := ses.Scene.SetVisible(key, visible); err != nil {
		return err
	}
	ses.commit()
	return nil
}

// Reorder swaps z-order with the neighbor and records history.
func (ses *Session) Reorder(key string, dir scene.ReorderDirection) error {
	if err := ses.Scene.Reorder(key, dir); err != nil {
		return err
	}
	ses.commit()
	return nil
}

// BeginDrag starts a drag gesture on the element, selecting it.
func (ses *Session) BeginDrag(key string) error {
	el, ok := ses.Scene.Get(key)
	if !ok {
		return fmt.Errorf("%w: %q", scene.ErrNoElement, key)
	}
	sz, err := el.Size(ses.textHeight)
	if err != nil {
		return err
	}
	ses.state = State{Selected: key}
	ses.drag = &dragState{key: key, size: sz, preview: geom.Pt{X: el.X, Y: el.Y}}
	ses.guides = nil
	return nil
}

// DragTo feeds one pointer-move into the gesture. It returns the snapped
// preview position for the rendering surface; the scene itself is not
// mutated until EndDrag.
func (ses *Session) DragTo(x, y float64) (geom.Pt, []snap.Guide) {
	d := ses.drag
	if d == nil {
		return geom.Pt{}, nil
	}
	box := geom.Rect{X: x, Y: y, W: d.size.W, H: d.size.H}
	canvas := geom.R(0, 0, float64(ses.Scene.CanvasWidth), float64(ses.Scene.CanvasHeight))
	snapped, guides := snap.Align(box, ses.anchors(d.key), canvas, ses.snapOpts)
	d.preview = geom.Pt{X: snapped.X, Y: snapped.Y}
	ses.guides = guides
	return d.preview, guides
}

// EndDrag finalizes the gesture: the last preview position is written into
// the scene once and a history snapshot is taken. Guides are cleared.
func (ses *Session) EndDrag() error {
	d := ses.drag
	ses.drag = nil
	ses.guides = nil
	if d == nil {
		return nil
	}
	if err := ses.Scene.Move(d.key, d.preview.X, d.preview.Y); err != nil {
		return err
	}
	ses.commit()
	return nil
}

func (ses *Session) cancelDrag() {
	ses.drag = nil
	ses.guides = nil
}

// anchors collects the bounding boxes of all other visible elements in
// deterministic key order.
func (ses *Session) anchors(exclude string) []snap.Anchor {
	var out []snap.Anchor
	for _, key := range ses.Scene.Keys() {
		if key == exclude {
			continue
		}
		el, _ := ses.Scene.Get(key)
		if !el.Visible {
			continue
		}
		b, err := el.Bounds(ses.textHeight)
		if err != nil {
			continue
		}
		out = append(out, snap.Anchor{Key: key, Rect: b})
	}
	return out
}

// keysAllowed guards keyboard dispatch: a command reaches the model only
// with an active selection and no focused text input.
func (ses *Session) keysAllowed() bool {
	return ses.state.Selected != "" && !ses.textFocus
}

// Nudge moves the selected element by one step per axis direction: 1px, or
// 10px when coarse (modifier held). Each nudge is a committed mutation.
func (ses *Session) Nudge(dx, dy int, coarse bool) error {
	if !ses.keysAllowed() {
		return nil
	}
	step := 1.0
	if coarse {
		step = 10.0
	}
	key := ses.state.Selected
	err := ses.Scene.Update(key, func(el *scene.Element) {
		el.X += float64(dx) * step
		el.Y += float64(dy) * step
	})
	if err != nil {
		return err
	}
	ses.commit()
	return nil
}

// DeleteSelected removes the selected element via the keyboard shortcut.
func (ses *Session) DeleteSelected() error {
	if !ses.keysAllowed() {
		return nil
	}
	return ses.Remove(ses.state.Selected)
}

// DuplicateSelected clones the selected element under a derived key, offset
// slightly so the copy is visible, and selects the copy.
func (ses *Session) DuplicateSelected() error {
	if !ses.keysAllowed() {
		return nil
	}
	src := ses.state.Selected
	el, ok := ses.Scene.Get(src)
	if !ok {
		return fmt.Errorf("%w: %q", scene.ErrNoElement, src)
	}
	key := src + "-copy"
	for i := 2; ; i++ {
		if _, exists := ses.Scene.Get(key); !exists {
			break
		}
		key = fmt.Sprintf("%s-copy-%d", src, i)
	}
	el.X += 10
	el.Y += 10
	if err := ses.Scene.Add(key, el); err != nil {
		return err
	}
	ses.state = State{Selected: key}
	ses.commit()
	return nil
}

// Undo restores the previous snapshot into the scene. No-op at the floor.
func (ses *Session) Undo() bool {
	if ses.textFocus {
		return false
	}
	snapshot, ok := ses.hist.Undo()
	if !ok {
		return false
	}
	ses.applySnapshot(snapshot)
	return true
}

// Redo reapplies an undone snapshot. No-op at the tail.
func (ses *Session) Redo() bool {
	if ses.textFocus {
		return false
	}
	snapshot, ok := ses.hist.Redo()
	if !ok {
		return false
	}
	ses.applySnapshot(snapshot)
	return true
}

func (ses *Session) applySnapshot(snapshot history.Snapshot) {
	ses.cancelDrag()
	ses.Scene.Restore(snapshot)
	if sel := ses.state.Selected; sel != "" {
		if _, ok := ses.Scene.Get(sel); !ok {
			ses.state = Idle
		}
	}
}
