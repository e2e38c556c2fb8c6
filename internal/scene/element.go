/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

// Element kinds and their type-specific field groups. An Element is a closed
// tagged variant: Kind selects which group is meaningful, and every consumer
// switches exhaustively over Kind so a new kind is a compile-visible change
// rather than a runtime guess.

import (
	"fmt"

	"cardcomposer/internal/geom"
)

// Kind discriminates the element variants.
type Kind string

const (
	// KindImage is a drop-zone for a headshot or logo. The placeholder
	// defines layout; the real picture is substituted at render time.
	KindImage Kind = "image"
	// KindText is a styled text field (name, title, company, custom fields).
	KindText Kind = "text"
	// KindIcon is a square badge representing an external link.
	KindIcon Kind = "icon"
)

// ImageZone holds the image drop-zone fields. BaseSize is the nominal width
// at scale 1 and never changes after creation; resizes only touch the
// scale factors.
type ImageZone struct {
	Shape    geom.Shape `json:"shape"`
	BaseSize float64    `json:"baseSize"`
	ScaleX   float64    `json:"scaleX,omitempty"`
	ScaleY   float64    `json:"scaleY,omitempty"`
	Opacity  float64    `json:"opacity,omitempty"`
}

// TextStyle holds the text field styling. Text falls back to the element
// label when empty so a freshly placed field shows something meaningful.
type TextStyle struct {
	Text          string  `json:"text,omitempty"`
	FontFamily    string  `json:"fontFamily,omitempty"`
	FontSize      float64 `json:"fontSize,omitempty"`
	Color         string  `json:"color,omitempty"`
	FontWeight    string  `json:"fontWeight,omitempty"`
	FontStyle     string  `json:"fontStyle,omitempty"`
	TextAlign     string  `json:"textAlign,omitempty"`
	Underline     bool    `json:"underline,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`
	LetterSpacing float64 `json:"letterSpacing,omitempty"`
	Width         float64 `json:"width"`
	ScaleX        float64 `json:"scaleX,omitempty"`
	ScaleY        float64 `json:"scaleY,omitempty"`
}

// IconBadge holds the icon-link fields.
type IconBadge struct {
	IconKind string  `json:"iconKind"`
	Size     float64 `json:"size"`
}

// Element is one positionable item on the canvas. X,Y are the top-left
// corner in canvas pixel space. ZIndex orders rendering; values need not be
// unique or dense, ties are broken by insertion order.
type Element struct {
	Kind    Kind      `json:"kind"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Visible bool      `json:"visible"`
	ZIndex  int       `json:"zIndex"`
	Label   string    `json:"label,omitempty"`
	Image   ImageZone `json:"image,omitzero"`
	Text    TextStyle `json:"text,omitzero"`
	Icon    IconBadge `json:"icon,omitzero"`

	// seq records insertion order for stable z ties. Assigned by the Scene.
	seq int
}

// HeightFunc reports the rendered height of a text element. Text layout is
// owned by the rendering surface, so bounds computation takes it as input.
type HeightFunc func(el Element) float64

// DisplayText returns the text content with the label fallback applied.
func (e Element) DisplayText() string {
	if e.Kind == KindText && e.Text.Text != "" {
		return e.Text.Text
	}
	return e.Label
}

// Size returns the actual on-canvas size of the element. Text heights come
// from the supplied HeightFunc; a nil HeightFunc yields the font size times
// line height as a crude stand-in.
func (e Element) Size(textHeight HeightFunc) (geom.Size, error) {
	switch e.Kind {
	case KindImage:
		return geom.ZoneSize(e.Image.Shape, e.Image.BaseSize, e.Image.ScaleX, e.Image.ScaleY)
	case KindText:
		w := e.Text.Width
		if sx := e.Text.ScaleX; sx != 0 {
			w *= sx
		}
		var h float64
		if textHeight != nil {
			h = textHeight(e)
		} else {
			lh := e.Text.LineHeight
			if lh == 0 {
				lh = 1.2
			}
			h = e.Text.FontSize * lh
		}
		if sy := e.Text.ScaleY; sy != 0 {
			h *= sy
		}
		return geom.Size{W: w, H: h}, nil
	case KindIcon:
		return geom.Size{W: e.Icon.Size, H: e.Icon.Size}, nil
	}
	return geom.Size{}, fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
}

// Bounds returns the element's content-box rectangle.
func (e Element) Bounds(textHeight HeightFunc) (geom.Rect, error) {
	sz, err := e.Size(textHeight)
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.Rect{X: e.X, Y: e.Y, W: sz.W, H: sz.H}, nil
}

// normalize applies defaulting and invariant clamps in place. Aspect-locked
// shapes always leave with ScaleX == ScaleY (X wins).
func (e *Element) normalize() {
	switch e.Kind {
	case KindImage:
		if e.Image.ScaleX == 0 {
			e.Image.ScaleX = 1
		}
		if e.Image.ScaleY == 0 {
			e.Image.ScaleY = 1
		}
		if e.Image.Opacity == 0 {
			e.Image.Opacity = 1
		}
		if e.Image.Shape.AspectLocked() {
			e.Image.ScaleY = e.Image.ScaleX
		}
	case KindText:
		if e.Text.ScaleX == 0 {
			e.Text.ScaleX = 1
		}
		if e.Text.ScaleY == 0 {
			e.Text.ScaleY = 1
		}
		if e.Text.LineHeight == 0 {
			e.Text.LineHeight = 1.2
		}
	case KindIcon:
		if e.Icon.Size == 0 {
			e.Icon.Size = 32
		}
	}
}

// validate checks construction invariants for a new or mutated element.
func (e Element) validate() error {
	switch e.Kind {
	case KindImage:
		if !e.Image.Shape.Valid() {
			return fmt.Errorf("%w: shape %q", ErrInvalidElement, e.Image.Shape)
		}
		if e.Image.BaseSize <= 0 {
			return fmt.Errorf("%w: base size %v", ErrInvalidElement, e.Image.BaseSize)
		}
	case KindText:
		if e.Text.Width <= 0 {
			return fmt.Errorf("%w: text width %v", ErrInvalidElement, e.Text.Width)
		}
	case KindIcon:
		if e.Icon.Size <= 0 {
			return fmt.Errorf("%w: icon size %v", ErrInvalidElement, e.Icon.Size)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
	return nil
}

// SetScale writes per-axis scale factors, rejecting an explicit asymmetric
// write against an aspect-locked shape. Resize flows that measure a bounding
// box should go through geom.DeriveScale instead, which clamps silently.
func (e *Element) SetScale(sx, sy float64) error {
	switch e.Kind {
	case KindImage:
		if e.Image.Shape.AspectLocked() && sx != sy {
			return fmt.Errorf("%w: %v != %v for shape %q", ErrAsymmetricScale, sx, sy, e.Image.Shape)
		}
		e.Image.ScaleX, e.Image.ScaleY = sx, sy
	case KindText:
		e.Text.ScaleX, e.Text.ScaleY = sx, sy
	case KindIcon:
		if sx != sy {
			return fmt.Errorf("%w: icon badges scale uniformly", ErrAsymmetricScale)
		}
		e.Icon.Size *= sx
	}
	return nil
}
