/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

// Persisted scene DTO. This is the wire/storage contract shared by the
// remote config store and the local fallback store:
//
//	{ "elements": {...}, "templateUrl": string|null,
//	  "canvasWidth": n, "canvasHeight": n }
//
// Absent optional fields default on decode: visible -> true, scales -> 1.
// A template held only as local bytes serializes as a data: URI so offline
// work survives a restart.

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Record is the serialized form of one Element.
type Record struct {
	Kind    Kind       `json:"kind"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Visible *bool      `json:"visible,omitempty"`
	ZIndex  int        `json:"zIndex"`
	Label   string     `json:"label,omitempty"`
	Image   *ImageZone `json:"image,omitempty"`
	Text    *TextStyle `json:"text,omitempty"`
	Icon    *IconBadge `json:"icon,omitempty"`
}

// DTO is the serialized form of a Scene.
type DTO struct {
	Elements     map[string]Record `json:"elements"`
	TemplateURL  *string           `json:"templateUrl"`
	CanvasWidth  int               `json:"canvasWidth"`
	CanvasHeight int               `json:"canvasHeight"`
}

// ToDTO converts the scene into its persisted form.
func ToDTO(s *Scene) DTO {
	d := DTO{
		Elements:     make(map[string]Record, s.Len()),
		CanvasWidth:  s.CanvasWidth,
		CanvasHeight: s.CanvasHeight,
	}
	for k, el := range s.elements {
		rec := Record{
			Kind:   el.Kind,
			X:      el.X,
			Y:      el.Y,
			ZIndex: el.ZIndex,
			Label:  el.Label,
		}
		v := el.Visible
		rec.Visible = &v
		switch el.Kind {
		case KindImage:
			img := el.Image
			rec.Image = &img
		case KindText:
			txt := el.Text
			rec.Text = &txt
		case KindIcon:
			ic := el.Icon
			rec.Icon = &ic
		}
		d.Elements[k] = rec
	}
	if !s.Template.Empty() {
		u := s.Template.URL
		if s.Template.Transient() {
			u = encodeDataURI(s.Template.MIME, s.Template.Data)
		}
		d.TemplateURL = &u
	}
	return d
}

// FromDTO reconstructs a scene from its persisted form. Insertion order for
// z ties is re-established over lexicographically sorted keys, so two loads
// of the same payload always render identically.
func FromDTO(d DTO) (*Scene, error) {
	s := New(d.CanvasWidth, d.CanvasHeight)
	keys := make([]string, 0, len(d.Elements))
	for k := range d.Elements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec := d.Elements[k]
		el := Element{
			Kind:   rec.Kind,
			X:      rec.X,
			Y:      rec.Y,
			ZIndex: rec.ZIndex,
			Label:  rec.Label,
		}
		switch rec.Kind {
		case KindImage:
			if rec.Image == nil {
				return nil, fmt.Errorf("%w: %q has no image record", ErrInvalidElement, k)
			}
			el.Image = *rec.Image
		case KindText:
			if rec.Text == nil {
				return nil, fmt.Errorf("%w: %q has no text record", ErrInvalidElement, k)
			}
			el.Text = *rec.Text
		case KindIcon:
			if rec.Icon == nil {
				return nil, fmt.Errorf("%w: %q has no icon record", ErrInvalidElement, k)
			}
			el.Icon = *rec.Icon
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, rec.Kind)
		}
		if err := s.Add(k, el); err != nil {
			return nil, err
		}
		if rec.Visible != nil && !*rec.Visible {
			// Add defaults to visible; apply the stored flag afterwards.
			if err := s.SetVisible(k, false); err != nil {
				return nil, err
			}
		}
	}
	if d.TemplateURL != nil && *d.TemplateURL != "" {
		tpl, err := templateFromURL(*d.TemplateURL)
		if err != nil {
			return nil, err
		}
		s.Template = tpl
	}
	return s, nil
}

// Encode renders the scene DTO as JSON.
func Encode(s *Scene) ([]byte, error) {
	return json.Marshal(ToDTO(s))
}

// Decode parses a JSON DTO payload into a scene. Adoption is all-or-nothing:
// any malformed element rejects the whole payload.
func Decode(data []byte) (*Scene, error) {
	var d DTO
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	return FromDTO(d)
}

const dataURIPrefix = "data:"

func encodeDataURI(mime string, data []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return dataURIPrefix + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func templateFromURL(u string) (TemplateRef, error) {
	if !strings.HasPrefix(u, dataURIPrefix) {
		return TemplateRef{URL: u}, nil
	}
	rest := strings.TrimPrefix(u, dataURIPrefix)
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return TemplateRef{}, fmt.Errorf("scene: unsupported data URI encoding")
	}
	mime := rest[:semi]
	raw, err := base64.StdEncoding.DecodeString(rest[semi+len(";base64,"):])
	if err != nil {
		return TemplateRef{}, fmt.Errorf("scene: data URI payload: %w", err)
	}
	return TemplateRef{Data: raw, MIME: mime}, nil
}
