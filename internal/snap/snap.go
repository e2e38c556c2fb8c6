/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap computes alignment corrections for a dragged element against
// the other visible elements and the canvas center. It is deterministic and
// UI-agnostic: the interaction layer feeds it bounding boxes on every
// pointer move and renders the returned guide lines.
package snap

import (
	"math"

	"cardcomposer/internal/geom"
)

// DefaultThreshold is the snap-in distance in canvas pixels at 100% zoom.
const DefaultThreshold = 15.0

// Options controls candidate selection.
type Options struct {
	// Threshold is the distance below which a candidate is in range.
	// Candidates at exactly Threshold are out of range.
	Threshold float64
}

// Anchor is a static reference box (another visible element). Anchors must
// be supplied in a deterministic order; ties on distance keep the first.
type Anchor struct {
	Key  string
	Rect geom.Rect
}

// Axis identifies a guide orientation. A vertical guide pins an X
// coordinate, a horizontal guide pins a Y coordinate.
type Axis string

const (
	Vertical   Axis = "vertical"
	Horizontal Axis = "horizontal"
)

// Guide describes one transient alignment line for the UI: the orientation,
// the pinned coordinate, and a span covering both aligned boxes.
type Guide struct {
	Axis     Axis
	Position float64
	From     geom.Pt
	To       geom.Pt
}

// Align snaps the moving box against the anchors and the canvas center.
// X and Y are fully decoupled; at most one correction applies per axis, the
// one with the smallest distance among in-range candidates. The returned
// box carries the corrected position; guides is empty when nothing is in
// range.
func Align(moving geom.Rect, anchors []Anchor, canvas geom.Rect, opts Options) (geom.Rect, []Guide) {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}

	var bx, by best

	mL, mR := moving.X, moving.X+moving.W
	mT, mB := moving.Y, moving.Y+moving.H
	mC := moving.Center()

	for _, a := range anchors {
		aL, aR := a.Rect.X, a.Rect.X+a.Rect.W
		aT, aB := a.Rect.Y, a.Rect.Y+a.Rect.H
		aC := a.Rect.Center()

		// X axis: leading-to-leading, trailing-to-trailing, center-to-center.
		bx.consider(aL-mL, opts.Threshold, verticalGuide(aL, moving, a.Rect))
		bx.consider(aR-mR, opts.Threshold, verticalGuide(aR, moving, a.Rect))
		bx.consider(aC.X-mC.X, opts.Threshold, verticalGuide(aC.X, moving, a.Rect))

		// Y axis.
		by.consider(aT-mT, opts.Threshold, horizontalGuide(aT, moving, a.Rect))
		by.consider(aB-mB, opts.Threshold, horizontalGuide(aB, moving, a.Rect))
		by.consider(aC.Y-mC.Y, opts.Threshold, horizontalGuide(aC.Y, moving, a.Rect))
	}

	// Canvas center participates with the moving element's center only.
	cc := canvas.Center()
	bx.consider(cc.X-mC.X, opts.Threshold, verticalGuide(cc.X, moving, canvas))
	by.consider(cc.Y-mC.Y, opts.Threshold, horizontalGuide(cc.Y, moving, canvas))

	snapped := moving
	var guides []Guide
	if bx.hit {
		snapped.X = moving.X + bx.offset
		guides = append(guides, bx.guide)
	}
	if by.hit {
		snapped.Y = moving.Y + by.offset
		guides = append(guides, by.guide)
	}
	return snapped, guides
}

// best tracks the nearest in-range candidate for one axis. Strictly smaller
// distance wins, so the first candidate considered keeps exact ties.
type best struct {
	hit    bool
	offset float64
	dist   float64
	guide  Guide
}

func (b *best) consider(offset, threshold float64, g Guide) {
	dist := math.Abs(offset)
	if dist >= threshold {
		return
	}
	if b.hit && dist >= b.dist {
		return
	}
	b.hit = true
	b.offset = offset
	b.dist = dist
	b.guide = g
}

func verticalGuide(x float64, a, b geom.Rect) Guide {
	minY := min(a.Y, b.Y)
	maxY := max(a.Y+a.H, b.Y+b.H)
	return Guide{Axis: Vertical, Position: x, From: geom.Pt{X: x, Y: minY}, To: geom.Pt{X: x, Y: maxY}}
}

func horizontalGuide(y float64, a, b geom.Rect) Guide {
	minX := min(a.X, b.X)
	maxX := max(a.X+a.W, b.X+b.W)
	return Guide{Axis: Horizontal, Position: y, From: geom.Pt{X: minX, Y: y}, To: geom.Pt{X: maxX, Y: y}}
}
