/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cardcomposer/internal/geom"
	"cardcomposer/internal/render"
	"cardcomposer/internal/scene"
)

func sampleCard(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New(360, 540)
	add := func(key string, el scene.Element) {
		if err := s.Add(key, el); err != nil {
			t.Fatalf("add %s: %v", key, err)
		}
	}
	add("headshot", scene.Element{
		Kind: scene.KindImage, X: 130, Y: 60, ZIndex: 1,
		Image: scene.ImageZone{Shape: geom.ShapeCircle, BaseSize: 100},
	})
	add("name", scene.Element{
		Kind: scene.KindText, X: 60, Y: 220, ZIndex: 2, Label: "Speaker Name",
		Text: scene.TextStyle{Width: 240, FontSize: 20, FontWeight: "bold"},
	})
	add("web", scene.Element{
		Kind: scene.KindIcon, X: 160, Y: 480, ZIndex: 3,
		Icon: scene.IconBadge{IconKind: "web", Size: 28},
	})
	return s
}

func TestWriteCardPNG_CreatesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "exports", "speaker.png")
	if err := WriteCardPNG(out, sampleCard(t), nil, render.RasterOptions{}); err != nil {
		t.Fatalf("export png: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open exported png: %v", err)
	}
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode exported png: %v", err)
	}
	if cfg.Width != 360 || cfg.Height != 540 {
		t.Fatalf("exported size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestWriteProofSheetPDF_CreatesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "exports", "proof.pdf")
	sheets := []Sheet{
		{Title: "speaker", Scene: sampleCard(t)},
		{Title: "attendee", Scene: sampleCard(t)},
	}
	if err := WriteProofSheetPDF(out, sheets, PDFOptions{IncludeGuides: true}); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	st, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat exported pdf: %v", err)
	}
	if st.Size() == 0 {
		t.Fatalf("exported pdf is empty")
	}
}

func TestWriteProofSheetPDF_RejectsEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "proof.pdf")
	if err := WriteProofSheetPDF(out, nil, PDFOptions{}); err == nil {
		t.Fatalf("empty sheet list must fail")
	}
}
