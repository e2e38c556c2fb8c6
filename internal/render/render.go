/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render turns a scene into an ordered display list and answers
// pointer hit tests. The host surface consumes the display list; the raster
// path in this package is used for exports and previews.
package render

import (
	"cardcomposer/internal/geom"
	"cardcomposer/internal/scene"
)

// Command is one item of the display list, back-to-front.
type Command struct {
	Key     string
	Element scene.Element
	Bounds  geom.Rect
}

// Commands builds the display list for a scene: visible elements only,
// sorted by z-index with insertion order breaking ties.
func Commands(s *scene.Scene, textHeight scene.HeightFunc) []Command {
	ordered := s.Ordered()
	out := make([]Command, 0, len(ordered))
	for _, it := range ordered {
		if !it.Element.Visible {
			continue
		}
		b, err := it.Element.Bounds(textHeight)
		if err != nil {
			continue
		}
		out = append(out, Command{Key: it.Key, Element: it.Element, Bounds: b})
	}
	return out
}

// HitTest returns the key of the topmost visible element under the point,
// or "" when the point hits the background. Circle image zones test as
// ellipses inscribed in their bounds; everything else is a box test.
func HitTest(s *scene.Scene, textHeight scene.HeightFunc, p geom.Pt) string {
	cmds := Commands(s, textHeight)
	for i := len(cmds) - 1; i >= 0; i-- {
		c := cmds[i]
		if !c.Bounds.Contains(p) {
			continue
		}
		if c.Element.Kind == scene.KindImage && c.Element.Image.Shape == geom.ShapeCircle {
			if !inEllipse(c.Bounds, p) {
				continue
			}
		}
		return c.Key
	}
	return ""
}

func inEllipse(r geom.Rect, p geom.Pt) bool {
	rx, ry := r.W/2, r.H/2
	if rx <= 0 || ry <= 0 {
		return false
	}
	c := r.Center()
	dx := (p.X - c.X) / rx
	dy := (p.Y - c.Y) / ry
	return dx*dx+dy*dy <= 1
}
