/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene holds the authoritative, serializable model of one card
// composition: canvas dimensions, the background template reference and the
// map of element keys to elements. All mutations are atomic with respect to
// the element map — a failed operation leaves the scene untouched.
package scene

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDuplicateElement is returned by Add for a key that already exists.
	ErrDuplicateElement = errors.New("scene: duplicate element key")
	// ErrNoElement is returned when the referenced key does not exist.
	ErrNoElement = errors.New("scene: no such element")
	// ErrAsymmetricScale is returned for an explicit ScaleX != ScaleY write
	// against an aspect-locked shape.
	ErrAsymmetricScale = errors.New("scene: asymmetric scale on aspect-locked shape")
	// ErrInvalidElement is returned for elements violating construction rules.
	ErrInvalidElement = errors.New("scene: invalid element")
	// ErrUnknownKind is returned for an unrecognized element kind.
	ErrUnknownKind = errors.New("scene: unknown element kind")
)

// TemplateRef points at the background template image. Either URL (durable)
// or Data (transient, not yet uploaded) is set; Width/Height are the natural
// pixel dimensions once known.
type TemplateRef struct {
	URL    string
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Transient reports whether the template is held only as local bytes.
func (t TemplateRef) Transient() bool { return t.URL == "" && len(t.Data) > 0 }

// Empty reports whether no template is referenced at all.
func (t TemplateRef) Empty() bool { return t.URL == "" && len(t.Data) == 0 }

// Scene is the root aggregate of a card composition.
type Scene struct {
	CanvasWidth  int
	CanvasHeight int
	Template     TemplateRef

	elements map[string]Element
	nextSeq  int
}

// New creates an empty scene with the given canvas dimensions.
func New(canvasW, canvasH int) *Scene {
	return &Scene{
		CanvasWidth:  canvasW,
		CanvasHeight: canvasH,
		elements:     make(map[string]Element),
	}
}

// Len returns the number of elements.
func (s *Scene) Len() int { return len(s.elements) }

// Get returns the element stored under key.
func (s *Scene) Get(key string) (Element, bool) {
	el, ok := s.elements[key]
	return el, ok
}

// Keys returns all element keys in lexicographic order.
func (s *Scene) Keys() []string {
	keys := make([]string, 0, len(s.elements))
	for k := range s.elements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Keyed pairs an element with its key for ordered listings.
type Keyed struct {
	Key     string
	Element Element
}

// Ordered returns the elements sorted by ZIndex, ties broken by insertion
// order. The result renders back-to-front.
func (s *Scene) Ordered() []Keyed {
	out := make([]Keyed, 0, len(s.elements))
	for k, el := range s.elements {
		out = append(out, Keyed{Key: k, Element: el})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Element, out[j].Element
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		return a.seq < b.seq
	})
	return out
}

// Add inserts a new element under a unique key. The element is normalized
// (scale defaults, aspect clamp) and validated before insertion.
func (s *Scene) Add(key string, el Element) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidElement)
	}
	if _, exists := s.elements[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateElement, key)
	}
	el.Visible = true
	el.normalize()
	if err := el.validate(); err != nil {
		return err
	}
	el.seq = s.nextSeq
	s.nextSeq++
	s.elements[key] = el
	return nil
}

// Remove deletes the element under key.
func (s *Scene) Remove(key string) error {
	if _, exists := s.elements[key]; !exists {
		return fmt.Errorf("%w: %q", ErrNoElement, key)
	}
	delete(s.elements, key)
	return nil
}

// Update applies mutate to a copy of the element and stores the result if it
// still validates. Kind, BaseSize and insertion order are immutable and are
// restored should the mutator touch them; aspect-locked scale writes are
// clamped by normalization.
func (s *Scene) Update(key string, mutate func(*Element)) error {
	cur, exists := s.elements[key]
	if !exists {
		return fmt.Errorf("%w: %q", ErrNoElement, key)
	}
	next := cur
	mutate(&next)
	next.Kind = cur.Kind
	next.seq = cur.seq
	if cur.Kind == KindImage {
		next.Image.Shape = cur.Image.Shape
		next.Image.BaseSize = cur.Image.BaseSize
	}
	next.normalize()
	if err := next.validate(); err != nil {
		return err
	}
	s.elements[key] = next
	return nil
}

// SetVisible toggles element visibility without other side effects.
func (s *Scene) SetVisible(key string, visible bool) error {
	return s.Update(key, func(el *Element) { el.Visible = visible })
}

// Move sets the element's top-left position.
func (s *Scene) Move(key string, x, y float64) error {
	return s.Update(key, func(el *Element) { el.X, el.Y = x, y })
}

// ReorderDirection selects which z-order neighbor Reorder swaps with.
type ReorderDirection int

const (
	Backward ReorderDirection = -1
	Forward  ReorderDirection = 1
)

// Reorder swaps the ZIndex of the target with its immediate neighbor in
// z-order. At either end of the stack it is a no-op.
func (s *Scene) Reorder(key string, dir ReorderDirection) error {
	if _, exists := s.elements[key]; !exists {
		return fmt.Errorf("%w: %q", ErrNoElement, key)
	}
	ordered := s.Ordered()
	idx := -1
	for i, ke := range ordered {
		if ke.Key == key {
			idx = i
			break
		}
	}
	nIdx := idx + int(dir)
	if nIdx < 0 || nIdx >= len(ordered) {
		return nil
	}
	a := s.elements[ordered[idx].Key]
	b := s.elements[ordered[nIdx].Key]
	a.ZIndex, b.ZIndex = b.ZIndex, a.ZIndex
	// Equal z-indexes would leave the stable order unchanged; bump instead
	// so the swap is observable.
	if a.ZIndex == b.ZIndex {
		a.ZIndex += int(dir)
	}
	s.elements[ordered[idx].Key] = a
	s.elements[ordered[nIdx].Key] = b
	return nil
}

// Toggle adds the element if the key is absent and removes it if present.
// Used for single-instance elements ("name", "headshot") that are clicked
// on and off rather than dragged. Re-adding starts from the given defaults,
// not from any previously removed styling.
func (s *Scene) Toggle(key string, el Element) (added bool, err error) {
	if _, exists := s.elements[key]; exists {
		return false, s.Remove(key)
	}
	return true, s.Add(key, el)
}

// Elements returns a deep copy of the element map, suitable as an immutable
// history snapshot.
func (s *Scene) Elements() map[string]Element {
	out := make(map[string]Element, len(s.elements))
	for k, el := range s.elements {
		out[k] = el
	}
	return out
}

// Restore replaces the element map with a snapshot previously produced by
// Elements. Canvas dimensions and template are tracked outside history and
// remain untouched.
func (s *Scene) Restore(snapshot map[string]Element) {
	next := make(map[string]Element, len(snapshot))
	maxSeq := 0
	for k, el := range snapshot {
		next[k] = el
		if el.seq >= maxSeq {
			maxSeq = el.seq + 1
		}
	}
	s.elements = next
	if maxSeq > s.nextSeq {
		s.nextSeq = maxSeq
	}
}
