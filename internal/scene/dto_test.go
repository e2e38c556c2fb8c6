/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"bytes"
	"math"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := New(800, 800)
	h := headshot()
	h.X, h.Y = 360.25, 360.75
	h.Image.ScaleX, h.Image.ScaleY = 1.5, 1.5
	if err := s.Add("headshot", h); err != nil {
		t.Fatalf("add: %v", err)
	}
	n := nameField()
	n.X, n.Y = 100.5, 520
	n.ZIndex = 3
	if err := s.Add("name", n); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.SetVisible("name", false); err != nil {
		t.Fatalf("hide: %v", err)
	}
	s.Template = TemplateRef{URL: "https://assets.example.com/tpl/1.png", Width: 800, Height: 800}

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CanvasWidth != 800 || got.CanvasHeight != 800 {
		t.Fatalf("canvas dims lost: %dx%d", got.CanvasWidth, got.CanvasHeight)
	}
	if got.Template.URL != s.Template.URL {
		t.Fatalf("template url lost: %q", got.Template.URL)
	}
	const tol = 1e-6
	for _, k := range s.Keys() {
		want, _ := s.Get(k)
		have, ok := got.Get(k)
		if !ok {
			t.Fatalf("element %q lost in round trip", k)
		}
		if math.Abs(want.X-have.X) > tol || math.Abs(want.Y-have.Y) > tol {
			t.Fatalf("%q position drifted: want (%v,%v) got (%v,%v)", k, want.X, want.Y, have.X, have.Y)
		}
		if want.Visible != have.Visible {
			t.Fatalf("%q visibility lost", k)
		}
		if want.Kind == KindImage {
			if math.Abs(want.Image.ScaleX-have.Image.ScaleX) > tol ||
				math.Abs(want.Image.ScaleY-have.Image.ScaleY) > tol {
				t.Fatalf("%q scale drifted: %+v vs %+v", k, want.Image, have.Image)
			}
		}
	}
}

func TestDecodeDefaultsAbsentOptionalFields(t *testing.T) {
	payload := []byte(`{
		"elements": {
			"headshot": {"kind": "image", "x": 10, "y": 20,
				"image": {"shape": "circle", "baseSize": 80}}
		},
		"templateUrl": null,
		"canvasWidth": 400, "canvasHeight": 600
	}`)
	s, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	el, ok := s.Get("headshot")
	if !ok {
		t.Fatalf("element missing")
	}
	if !el.Visible {
		t.Fatalf("absent visible must default to true")
	}
	if el.Image.ScaleX != 1 || el.Image.ScaleY != 1 {
		t.Fatalf("absent scales must default to 1: %+v", el.Image)
	}
	if !s.Template.Empty() {
		t.Fatalf("null templateUrl must leave template empty")
	}
}

func TestDecodeRejectsMalformedPayloadWhole(t *testing.T) {
	payload := []byte(`{
		"elements": {
			"ok": {"kind": "text", "x": 0, "y": 0, "text": {"width": 100}},
			"bad": {"kind": "image", "x": 0, "y": 0}
		},
		"templateUrl": null, "canvasWidth": 400, "canvasHeight": 600
	}`)
	if _, err := Decode(payload); err == nil {
		t.Fatalf("adoption must be all-or-nothing; partial decode succeeded")
	}
}

func TestTransientTemplateSurvivesAsDataURI(t *testing.T) {
	s := New(400, 400)
	raw := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	s.Template = TemplateRef{Data: raw, MIME: "image/png", Width: 400, Height: 400}
	data, err := Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Template.Transient() {
		t.Fatalf("template should still be transient after round trip")
	}
	if got.Template.MIME != "image/png" || !bytes.Equal(got.Template.Data, raw) {
		t.Fatalf("template bytes corrupted: %+v", got.Template)
	}
}

func TestDecodeLoadOrderIsDeterministic(t *testing.T) {
	s := New(400, 400)
	for _, k := range []string{"zeta", "alpha", "mid"} {
		el := Element{Kind: KindIcon, Icon: IconBadge{IconKind: "link", Size: 24}}
		if err := s.Add(k, el); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	data, err := Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	a, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	oa, ob := a.Ordered(), b.Ordered()
	for i := range oa {
		if oa[i].Key != ob[i].Key {
			t.Fatalf("load order non-deterministic at %d: %s vs %s", i, oa[i].Key, ob[i].Key)
		}
	}
}

func TestBoundsUnknownKind(t *testing.T) {
	el := Element{Kind: Kind("blob")}
	if _, err := el.Bounds(nil); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
