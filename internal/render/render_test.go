/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"cardcomposer/internal/geom"
	"cardcomposer/internal/scene"
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New(800, 1000)
	add := func(key string, el scene.Element) {
		if err := s.Add(key, el); err != nil {
			t.Fatalf("add %s: %v", key, err)
		}
	}
	add("headshot", scene.Element{
		Kind: scene.KindImage, X: 100, Y: 100, ZIndex: 1,
		Image: scene.ImageZone{Shape: geom.ShapeCircle, BaseSize: 80},
	})
	add("name", scene.Element{
		Kind: scene.KindText, X: 100, Y: 300, ZIndex: 2, Label: "Name",
		Text: scene.TextStyle{Width: 200, FontSize: 24},
	})
	add("linkedin", scene.Element{
		Kind: scene.KindIcon, X: 400, Y: 400, ZIndex: 3,
		Icon: scene.IconBadge{IconKind: "linkedin", Size: 32},
	})
	return s
}

func TestCommandsOrderAndVisibility(t *testing.T) {
	s := testScene(t)
	if err := s.SetVisible("name", false); err != nil {
		t.Fatalf("hide: %v", err)
	}
	cmds := Commands(s, nil)
	if len(cmds) != 2 {
		t.Fatalf("expected 2 visible commands, got %d", len(cmds))
	}
	if cmds[0].Key != "headshot" || cmds[1].Key != "linkedin" {
		t.Fatalf("z order wrong: %s, %s", cmds[0].Key, cmds[1].Key)
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	s := scene.New(800, 1000)
	under := scene.Element{Kind: scene.KindImage, X: 0, Y: 0, ZIndex: 1,
		Image: scene.ImageZone{Shape: geom.ShapeSquare, BaseSize: 200}}
	over := scene.Element{Kind: scene.KindIcon, X: 50, Y: 50, ZIndex: 5,
		Icon: scene.IconBadge{IconKind: "web", Size: 32}}
	if err := s.Add("bg", under); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add("badge", over); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := HitTest(s, nil, geom.Pt{X: 60, Y: 60}); got != "badge" {
		t.Fatalf("topmost hit = %q", got)
	}
	if got := HitTest(s, nil, geom.Pt{X: 150, Y: 150}); got != "bg" {
		t.Fatalf("underlying hit = %q", got)
	}
	if got := HitTest(s, nil, geom.Pt{X: 700, Y: 900}); got != "" {
		t.Fatalf("background hit = %q", got)
	}
}

func TestHitTestCircleIsEllipse(t *testing.T) {
	s := scene.New(800, 1000)
	el := scene.Element{Kind: scene.KindImage, X: 0, Y: 0, ZIndex: 1,
		Image: scene.ImageZone{Shape: geom.ShapeCircle, BaseSize: 100}}
	if err := s.Add("dot", el); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Center is inside, the bounding-box corner is outside the disc.
	if got := HitTest(s, nil, geom.Pt{X: 50, Y: 50}); got != "dot" {
		t.Fatalf("center hit = %q", got)
	}
	if got := HitTest(s, nil, geom.Pt{X: 2, Y: 2}); got != "" {
		t.Fatalf("corner must miss the disc, hit %q", got)
	}
}

func TestRasterDrawsScene(t *testing.T) {
	s := testScene(t)
	img, err := Raster(s, nil, RasterOptions{})
	if err != nil {
		t.Fatalf("raster: %v", err)
	}
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 1000 {
		t.Fatalf("raster bounds = %v", img.Bounds())
	}
	// Icon square must not be background white.
	if c := img.RGBAAt(410, 410); c == (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("icon pixel still background")
	}
	// Headshot placeholder center filled.
	if c := img.RGBAAt(140, 140); c == (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("placeholder pixel still background")
	}
}

func TestRasterRejectsEmptyCanvas(t *testing.T) {
	if _, err := Raster(scene.New(0, 0), nil, RasterOptions{}); err == nil {
		t.Fatalf("zero canvas must fail")
	}
}

func TestProbeReadsDimensions(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 360, 240))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	w, h, err := Prober{}.Probe(buf.Bytes())
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if w != 360 || h != 240 {
		t.Fatalf("probe = %dx%d", w, h)
	}
	if _, _, err := (Prober{}).Probe([]byte("not an image")); err == nil {
		t.Fatalf("garbage must fail")
	}
}
