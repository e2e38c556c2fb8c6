/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"cardcomposer/internal/geom"
	"cardcomposer/internal/scene"
)

// Sheet is one card on the proof sheet PDF.
type Sheet struct {
	Title string
	Scene *scene.Scene
}

// PDFOptions controls PDF proof sheet behavior. Units are points.
// Vector outlines are used throughout; built-in Helvetica keeps text vector
// without font embedding.
type PDFOptions struct {
	IncludeGuides bool
	// TextHeight measures text elements; nil falls back to the font-size
	// approximation in scene.Element.Size.
	TextHeight scene.HeightFunc
}

// WriteProofSheetPDF writes one PDF page per card, each page sized to the
// card canvas at a 1:1 point mapping, and saves it at outPath.
func WriteProofSheetPDF(outPath string, sheets []Sheet, opt PDFOptions) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no cards to export")
	}
	first := sheets[0].Scene
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(first.CanvasWidth), Ht: float64(first.CanvasHeight)},
		OrientationStr: "",
	})
	pdf.SetTitle("Card proof sheet", false)
	pdf.SetAuthor("Card Composer", false)
	pdf.SetFont("Helvetica", "", 12)

	for _, sh := range sheets {
		s := sh.Scene
		if s == nil || s.CanvasWidth <= 0 || s.CanvasHeight <= 0 {
			return fmt.Errorf("card %q has no drawable canvas", sh.Title)
		}
		w, h := float64(s.CanvasWidth), float64(s.CanvasHeight)
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})

		if opt.IncludeGuides {
			pdf.SetDrawColor(255, 0, 0)
			pdf.SetLineWidth(0.2)
			pdf.Rect(0, 0, w, h, "D")
		}
		if sh.Title != "" {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Text(8, 14, sh.Title)
		}

		for _, it := range s.Ordered() {
			el := it.Element
			if !el.Visible {
				continue
			}
			b, err := el.Bounds(opt.TextHeight)
			if err != nil {
				return fmt.Errorf("card %q element %q: %w", sh.Title, it.Key, err)
			}
			drawElement(pdf, el, b)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawElement(pdf *gofpdf.Fpdf, el scene.Element, b geom.Rect) {
	switch el.Kind {
	case scene.KindImage:
		pdf.SetDrawColor(156, 163, 175)
		pdf.SetFillColor(229, 231, 235)
		pdf.SetLineWidth(0.5)
		if el.Image.Shape == geom.ShapeCircle {
			pdf.Ellipse(b.X+b.W/2, b.Y+b.H/2, b.W/2, b.H/2, 0, "FD")
		} else {
			pdf.Rect(b.X, b.Y, b.W, b.H, "FD")
		}
	case scene.KindText:
		fsz := el.Text.FontSize
		if fsz <= 0 {
			fsz = 12
		}
		style := ""
		if el.Text.FontWeight == "bold" {
			style += "B"
		}
		if el.Text.FontStyle == "italic" {
			style += "I"
		}
		pdf.SetTextColor(17, 24, 39)
		pdf.SetFont("Helvetica", style, fsz)
		// Baseline roughly one font size below the top edge.
		pdf.Text(b.X, b.Y+fsz, el.DisplayText())
	case scene.KindIcon:
		pdf.SetDrawColor(55, 65, 81)
		pdf.SetFillColor(55, 65, 81)
		pdf.Rect(b.X, b.Y, b.W, b.H, "FD")
	}
}
