/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes card previews to files: single-card PNGs and
// multi-card PDF proof sheets.
package export

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"cardcomposer/internal/render"
	"cardcomposer/internal/scene"
)

// WriteCardPNG rasterizes the scene and writes it as a PNG at outPath,
// creating parent directories as needed.
func WriteCardPNG(outPath string, s *scene.Scene, textHeight scene.HeightFunc, opt render.RasterOptions) error {
	img, err := render.Raster(s, textHeight, opt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}
