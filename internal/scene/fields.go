/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

// Dynamic field adapter. Registration forms attach arbitrary extra fields to
// an event; any field flagged as card-eligible becomes a text element the
// designer can place like the built-in ones.

import (
	"sort"

	"cardcomposer/internal/geom"
)

// FieldDescriptor is the externally supplied description of one form field.
type FieldDescriptor struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Kind       string `json:"kind"`
	ShowOnCard bool   `json:"showOnCard"`
	Enabled    bool   `json:"enabled"`
}

// builtinFieldIDs are form fields already covered by static elements; the
// adapter skips them so a card never carries two "name" fields.
var builtinFieldIDs = map[string]bool{
	"name":     true,
	"title":    true,
	"company":  true,
	"email":    true,
	"headshot": true,
	"logo":     true,
}

// Starter builds the layout a designer begins from: the built-in fields
// placed as elements, proportioned to the canvas. Headshot up top, the text
// stack below it, a LinkedIn badge near the bottom edge.
func Starter(canvasW, canvasH int) *Scene {
	w, h := float64(canvasW), float64(canvasH)
	s := New(canvasW, canvasH)
	add := func(key string, el Element) {
		_ = s.Add(key, el)
	}
	add("headshot", Element{
		Kind: KindImage, X: w * 0.35, Y: h * 0.08, ZIndex: 1, Label: "Headshot",
		Image: ImageZone{Shape: geom.ShapeCircle, BaseSize: w * 0.3},
	})
	add("logo", Element{
		Kind: KindImage, X: w * 0.06, Y: h * 0.04, ZIndex: 1, Label: "Logo",
		Image: ImageZone{Shape: geom.ShapeHorizontal, BaseSize: w * 0.18},
	})
	add("name", Element{
		Kind: KindText, X: w * 0.1, Y: h * 0.42, ZIndex: 2, Label: "Name",
		Text: TextStyle{FontFamily: "Inter", FontSize: 28, FontWeight: "bold", Color: "#111111", TextAlign: "center", Width: w * 0.8},
	})
	add("title", Element{
		Kind: KindText, X: w * 0.1, Y: h * 0.48, ZIndex: 2, Label: "Title",
		Text: TextStyle{FontFamily: "Inter", FontSize: 18, Color: "#333333", TextAlign: "center", Width: w * 0.8},
	})
	add("company", Element{
		Kind: KindText, X: w * 0.1, Y: h * 0.53, ZIndex: 2, Label: "Company",
		Text: TextStyle{FontFamily: "Inter", FontSize: 16, Color: "#333333", TextAlign: "center", Width: w * 0.8},
	})
	add("email", Element{
		Kind: KindText, X: w * 0.1, Y: h * 0.58, ZIndex: 2, Label: "Email",
		Text: TextStyle{FontFamily: "Inter", FontSize: 14, Color: "#555555", TextAlign: "center", Width: w * 0.8},
	})
	add("linkedin", Element{
		Kind: KindIcon, X: w*0.5 - 16, Y: h * 0.88, ZIndex: 3, Label: "LinkedIn",
		Icon: IconBadge{IconKind: "linkedin", Size: 32},
	})
	return s
}

// FieldElements synthesizes text elements for every enabled, card-eligible
// descriptor. New elements stack below the canvas midline at a fixed pitch,
// in descriptor-ID order so repeated synthesis is deterministic. Existing
// keys in taken are skipped (the designer may already have placed them).
func FieldElements(fields []FieldDescriptor, canvasW, canvasH int, taken map[string]Element) map[string]Element {
	eligible := make([]FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		if !f.ShowOnCard || !f.Enabled || builtinFieldIDs[f.ID] {
			continue
		}
		if _, exists := taken[f.ID]; exists {
			continue
		}
		eligible = append(eligible, f)
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })

	const pitch = 34.0
	out := make(map[string]Element, len(eligible))
	for i, f := range eligible {
		label := f.Label
		if label == "" {
			label = f.ID
		}
		out[f.ID] = Element{
			Kind:  KindText,
			X:     float64(canvasW) * 0.1,
			Y:     float64(canvasH)*0.55 + float64(i)*pitch,
			Label: label,
			Text: TextStyle{
				FontFamily: "Inter",
				FontSize:   18,
				Color:      "#222222",
				TextAlign:  "left",
				Width:      float64(canvasW) * 0.8,
			},
		}
	}
	return out
}
