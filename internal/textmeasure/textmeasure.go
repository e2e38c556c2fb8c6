/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textmeasure supplies the text height measurement the scene model
// delegates to its rendering surface. Measurement is deterministic: loaded
// OpenType faces when available, a fixed bitmap face otherwise.
package textmeasure

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"cardcomposer/internal/scene"
)

// Library stores loaded OpenType fonts mapped by family/weight/italic.
type Library struct {
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	bold   bool
	italic bool
}

func NewLibrary() *Library { return &Library{fonts: make(map[fontKey]*opentype.Font)} }

// LoadTTF loads a font file into the library under the given family variant.
func (l *Library) LoadTTF(family string, bold, italic bool, path string) error {
	if l.fonts == nil {
		l.fonts = make(map[fontKey]*opentype.Font)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}
	l.fonts[fontKey{family: family, bold: bold, italic: italic}] = f
	return nil
}

func (l *Library) find(family string, bold, italic bool) *opentype.Font {
	if l == nil || l.fonts == nil {
		return nil
	}
	if f, ok := l.fonts[fontKey{family: family, bold: bold, italic: italic}]; ok {
		return f
	}
	// Any variant of the same family beats the bitmap fallback.
	for k, f := range l.fonts {
		if k.family == family {
			return f
		}
	}
	return nil
}

// Measurer computes text element heights. The zero value measures with the
// bitmap fallback face only.
type Measurer struct {
	Lib *Library
	DPI float64 // default 72 if zero
}

// face resolves a font.Face for the element's styling.
func (m Measurer) face(el scene.Element) font.Face {
	size := el.Text.FontSize
	if size <= 0 {
		size = 12
	}
	if m.Lib != nil {
		bold := el.Text.FontWeight == "bold"
		italic := el.Text.FontStyle == "italic"
		if f := m.Lib.find(el.Text.FontFamily, bold, italic); f != nil {
			dpi := m.DPI
			if dpi <= 0 {
				dpi = 72
			}
			face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingFull})
			if err == nil {
				return face
			}
		}
	}
	return basicfont.Face7x13
}

// Height implements scene.HeightFunc: the wrapped line count times the line
// advance (font size times line height). Wrapping breaks on spaces against
// the element's unscaled width; scale factors are applied by the caller.
func (m Measurer) Height(el scene.Element) float64 {
	size := el.Text.FontSize
	if size <= 0 {
		size = 12
	}
	lh := el.Text.LineHeight
	if lh == 0 {
		lh = 1.2
	}
	lines := m.countLines(el)
	return float64(lines) * size * lh
}

func (m Measurer) countLines(el scene.Element) int {
	text := el.DisplayText()
	if text == "" {
		return 1
	}
	maxW := el.Text.Width
	if maxW <= 0 {
		return 1 + strings.Count(text, "\n")
	}
	d := &font.Drawer{Face: m.face(el)}
	adv := func(s string) float64 {
		return float64(d.MeasureString(s) >> 6)
	}
	spaceW := adv(" ") + el.Text.LetterSpacing
	lines := 1
	var cur float64
	for i, para := range strings.Split(text, "\n") {
		if i > 0 {
			lines++
			cur = 0
		}
		for _, word := range strings.Fields(para) {
			w := adv(word) + el.Text.LetterSpacing*float64(len(word))
			if cur > 0 && cur+spaceW+w > maxW {
				lines++
				cur = w
				continue
			}
			if cur > 0 {
				cur += spaceW
			}
			cur += w
		}
	}
	return lines
}

var _ scene.HeightFunc = Measurer{}.Height
