/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Scale bookkeeping for image drop-zones. A zone has an immutable nominal
// BaseSize (its width at scale 1); the on-canvas size is always
// BaseSize*ScaleX by derived-height*ScaleY. Keeping base and scale separate
// means a saved composition renders identically regardless of editor zoom.
//
// All measurements here are content-box: decorative strokes drawn around a
// zone are not part of its bounds and must be subtracted by the caller
// before scale derivation.

import (
	"errors"
	"fmt"
)

// Shape is the clip/aspect class of an image drop-zone.
type Shape string

const (
	ShapeCircle     Shape = "circle"
	ShapeSquare     Shape = "square"
	ShapeVertical   Shape = "vertical"   // 3:4 portrait
	ShapeHorizontal Shape = "horizontal" // 4:3 landscape
)

// ErrBaseSize signals a non-positive base size. Construction invariants make
// this unreachable in practice; it exists so callers fail loudly in tests.
var ErrBaseSize = errors.New("geom: base size must be positive")

// AspectLocked reports whether the shape requires ScaleX == ScaleY.
// Circle and square zones only ever expose corner resize handles, so an
// asymmetric scale on them is a caller bug.
func (s Shape) AspectLocked() bool {
	return s == ShapeCircle || s == ShapeSquare
}

// HeightRatio is the height/width ratio implied by the shape.
func (s Shape) HeightRatio() float64 {
	switch s {
	case ShapeVertical:
		return 4.0 / 3.0
	case ShapeHorizontal:
		return 3.0 / 4.0
	default:
		return 1
	}
}

// Valid reports whether s is one of the known shapes.
func (s Shape) Valid() bool {
	switch s {
	case ShapeCircle, ShapeSquare, ShapeVertical, ShapeHorizontal:
		return true
	}
	return false
}

// ZoneSize returns the actual on-canvas size of a drop-zone: base width times
// ScaleX, shape-derived base height times ScaleY. Zero scales count as 1 so
// legacy records without explicit scale factors keep their nominal size.
func ZoneSize(shape Shape, baseSize, scaleX, scaleY float64) (Size, error) {
	if baseSize <= 0 {
		return Size{}, fmt.Errorf("%w: %v", ErrBaseSize, baseSize)
	}
	if scaleX == 0 {
		scaleX = 1
	}
	if scaleY == 0 {
		scaleY = 1
	}
	return Size{W: baseSize * scaleX, H: baseSize * shape.HeightRatio() * scaleY}, nil
}

// DeriveScale back-computes the per-axis scale factors after a user resize,
// given the committed content-box bounds. For aspect-locked shapes ScaleX is
// authoritative and ScaleY is forced equal to it.
func DeriveScale(shape Shape, baseSize, observedW, observedH float64) (scaleX, scaleY float64, err error) {
	if baseSize <= 0 {
		return 0, 0, fmt.Errorf("%w: %v", ErrBaseSize, baseSize)
	}
	scaleX = observedW / baseSize
	if shape.AspectLocked() {
		return scaleX, scaleX, nil
	}
	baseH := baseSize * shape.HeightRatio()
	scaleY = observedH / baseH
	return scaleX, scaleY, nil
}
