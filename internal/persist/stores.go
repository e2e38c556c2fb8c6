/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package persist reconciles the remote, event-scoped copy of a card
// configuration with a local fallback copy. The local store is the
// durability floor: the editor stays fully usable offline.
package persist

import (
	"context"
	"errors"

	"cardcomposer/internal/scene"
)

var (
	// ErrNotFound reports that no stored configuration exists yet. It is a
	// normal first-run condition, not a failure.
	ErrNotFound = errors.New("persist: config not found")
	// ErrDecode reports that an adopted template image failed to decode.
	// The rest of the scene remains usable.
	ErrDecode = errors.New("persist: template image decode failed")
)

// ConfigStore is the durable, event-scoped configuration store.
type ConfigStore interface {
	// LoadConfig returns the stored DTO for (eventID, cardType) or
	// ErrNotFound.
	LoadConfig(ctx context.Context, eventID, cardType string) (scene.DTO, error)
	// SaveConfig replaces the stored DTO for (eventID, cardType).
	SaveConfig(ctx context.Context, eventID, cardType string, dto scene.DTO) error
}

// AssetStore uploads raw bytes to durable storage and returns a durable URL.
type AssetStore interface {
	UploadAsset(ctx context.Context, data []byte, mimeType string) (string, error)
}

// LocalStore is a simple synchronous string-keyed store, always available.
type LocalStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// ImageProber reports the natural pixel dimensions of encoded image bytes.
// It stands in for the host's image decode capability.
type ImageProber interface {
	Probe(data []byte) (width, height int, err error)
}

// storeKey builds the local fallback key for (cardType, eventID); editor
// sessions without an event share the "default" slot per card type.
func storeKey(cardType, eventID string) string {
	if eventID == "" {
		eventID = "default"
	}
	return "cardconfig/" + cardType + "/" + eventID
}
