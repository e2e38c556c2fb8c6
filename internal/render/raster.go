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
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"cardcomposer/internal/geom"
	"cardcomposer/internal/scene"
)

// RasterOptions tunes preview rasterization.
type RasterOptions struct {
	// Background fill; white when zero.
	Background color.RGBA
	// ImageFor resolves an image zone key to decoded pixels. Unresolved
	// zones draw as outlined placeholders.
	ImageFor func(key string) image.Image
}

var (
	placeholderFill   = color.RGBA{229, 231, 235, 255}
	placeholderStroke = color.RGBA{156, 163, 175, 255}
	iconFill          = color.RGBA{55, 65, 81, 255}
	textColor         = color.RGBA{17, 24, 39, 255}
)

// Raster draws the scene into a new RGBA image at canvas resolution.
// The result is a proofing preview: template and image zones are scaled
// with bilinear interpolation, text uses a fixed preview face.
func Raster(s *scene.Scene, textHeight scene.HeightFunc, opt RasterOptions) (*image.RGBA, error) {
	w, h := s.CanvasWidth, s.CanvasHeight
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: canvas %dx%d not drawable", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := opt.Background
	if bg.A == 0 {
		bg = color.RGBA{255, 255, 255, 255}
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	if !s.Template.Empty() && len(s.Template.Data) > 0 {
		if tmpl, _, err := image.Decode(bytes.NewReader(s.Template.Data)); err == nil {
			xdraw.ApproxBiLinear.Scale(img, img.Bounds(), tmpl, tmpl.Bounds(), xdraw.Over, nil)
		}
	}

	for _, c := range Commands(s, textHeight) {
		switch c.Element.Kind {
		case scene.KindImage:
			drawImageZone(img, c, opt)
		case scene.KindText:
			drawTextField(img, c)
		case scene.KindIcon:
			fillBox(img, c.Bounds, iconFill)
		}
	}
	return img, nil
}

func drawImageZone(dst *image.RGBA, c Command, opt RasterOptions) {
	var src image.Image
	if opt.ImageFor != nil {
		src = opt.ImageFor(c.Key)
	}
	circle := c.Element.Image.Shape == geom.ShapeCircle
	if src == nil {
		if circle {
			fillEllipse(dst, c.Bounds, placeholderFill)
			strokeEllipse(dst, c.Bounds, placeholderStroke)
		} else {
			fillBox(dst, c.Bounds, placeholderFill)
			strokeBox(dst, c.Bounds, placeholderStroke)
		}
		return
	}
	r := rectToImage(c.Bounds)
	if circle {
		// Scale into a staging tile, then copy pixels inside the ellipse.
		tile := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		xdraw.ApproxBiLinear.Scale(tile, tile.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				p := geom.Pt{X: float64(x) + 0.5, Y: float64(y) + 0.5}
				if inEllipse(c.Bounds, p) {
					dst.Set(x, y, tile.At(x-r.Min.X, y-r.Min.Y))
				}
			}
		}
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, r, src, src.Bounds(), xdraw.Over, nil)
}

func drawTextField(dst *image.RGBA, c Command) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(math.Round(c.Bounds.X))),
			Y: fixed.I(int(math.Round(c.Bounds.Y)) + face.Ascent),
		},
	}
	d.DrawString(c.Element.DisplayText())
}

func rectToImage(r geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

func fillBox(img *image.RGBA, b geom.Rect, col color.RGBA) {
	draw.Draw(img, rectToImage(b), &image.Uniform{C: col}, image.Point{}, draw.Over)
}

func strokeBox(img *image.RGBA, b geom.Rect, col color.RGBA) {
	r := rectToImage(b)
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, col)
		img.SetRGBA(x, r.Max.Y-1, col)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, col)
		img.SetRGBA(r.Max.X-1, y, col)
	}
}

func fillEllipse(img *image.RGBA, b geom.Rect, col color.RGBA) {
	r := rectToImage(b)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := geom.Pt{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if inEllipse(b, p) {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func strokeEllipse(img *image.RGBA, b geom.Rect, col color.RGBA) {
	// Parametric walk; sufficient for hairline preview strokes.
	cx, cy := b.Center().X, b.Center().Y
	rx, ry := b.W/2, b.H/2
	steps := int(math.Ceil(2 * math.Pi * math.Max(rx, ry)))
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		t := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Round(cx + rx*math.Cos(t)))
		y := int(math.Round(cy + ry*math.Sin(t)))
		img.SetRGBA(x, y, col)
	}
}
