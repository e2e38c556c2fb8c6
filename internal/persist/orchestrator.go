/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package persist

import (
	"context"
	"errors"
	"log/slog"

	applog "cardcomposer/internal/log"
	"cardcomposer/internal/scene"
)

// Source identifies where a loaded scene came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceEmpty  Source = "empty"
)

// LoadResult carries the adopted scene plus recoverable load diagnostics.
type LoadResult struct {
	Scene  *scene.Scene
	Source Source
	// TemplateCleared is set when an adopted template failed to decode and
	// was dropped; the rest of the scene stays usable.
	TemplateCleared bool
	// Warn holds a recoverable error (remote unreachable, decode failure)
	// that the UI should surface as a non-blocking notification.
	Warn error
}

// SaveStatus reports how far a save got. The local write is the durability
// floor; everything beyond it is best effort.
type SaveStatus struct {
	// Synced is true when the remote copy was updated.
	Synced bool
	// Partial is true when the remote scene was saved but the template
	// asset upload failed, leaving a transient template reference.
	Partial bool
	UploadErr error
	RemoteErr error
}

// Orchestrator owns the load-on-open and save-on-demand flows. Remote and
// Assets may be nil for offline-only sessions; Local must be set.
type Orchestrator struct {
	Remote ConfigStore
	Assets AssetStore
	Local  LocalStore
	Prober ImageProber

	// Canvas dimensions for a fresh scene when nothing is stored yet.
	DefaultCanvasW int
	DefaultCanvasH int
}

// Load fetches the configuration for (eventID, cardType), preferring the
// remote copy, falling back to the local store, and finally starting empty.
// Adoption of a remote payload is all-or-nothing.
func (o *Orchestrator) Load(ctx context.Context, eventID, cardType string) LoadResult {
	l := applog.WithOperation(applog.WithComponent("persist"), "load").With(
		slog.String("event", eventID), slog.String("card", cardType),
	)
	var warn error
	if eventID != "" && o.Remote != nil {
		dto, err := o.Remote.LoadConfig(ctx, eventID, cardType)
		switch {
		case err == nil:
			sc, derr := scene.FromDTO(dto)
			if derr == nil {
				res := LoadResult{Scene: sc, Source: SourceRemote}
				o.adoptTemplate(&res)
				l.Info("loaded remote config", slog.Int("elements", sc.Len()))
				return res
			}
			// A malformed payload must not be half-applied.
			l.Warn("remote payload rejected", slog.Any("err", derr))
			warn = derr
		case errors.Is(err, ErrNotFound):
			l.Debug("no remote config yet")
		default:
			l.Warn("remote load failed", slog.Any("err", err))
			warn = err
		}
	}

	if val, ok := o.Local.Get(storeKey(cardType, eventID)); ok {
		sc, err := scene.Decode([]byte(val))
		if err == nil {
			res := LoadResult{Scene: sc, Source: SourceLocal, Warn: warn}
			o.adoptTemplate(&res)
			l.Info("loaded local config", slog.Int("elements", sc.Len()))
			return res
		}
		l.Warn("local copy unreadable", slog.Any("err", err))
		if warn == nil {
			warn = err
		}
	}

	l.Info("starting from empty scene")
	return LoadResult{
		Scene:  scene.New(o.DefaultCanvasW, o.DefaultCanvasH),
		Source: SourceEmpty,
		Warn:   warn,
	}
}

// adoptTemplate finalizes the template reference on a freshly loaded scene:
// inline image bytes are probed for natural dimensions, canvas dimensions
// are derived from them only when the payload omitted explicit ones, and an
// undecodable template is cleared rather than poisoning the scene.
func (o *Orchestrator) adoptTemplate(res *LoadResult) {
	sc := res.Scene
	dimsOmitted := sc.CanvasWidth <= 0 || sc.CanvasHeight <= 0
	if sc.Template.Transient() && o.Prober != nil {
		w, h, err := o.Prober.Probe(sc.Template.Data)
		if err != nil {
			sc.Template = scene.TemplateRef{}
			res.TemplateCleared = true
			if res.Warn == nil {
				res.Warn = ErrDecode
			}
		} else {
			sc.Template.Width, sc.Template.Height = w, h
			if dimsOmitted {
				sc.CanvasWidth, sc.CanvasHeight = w, h
			}
		}
	}
	if sc.CanvasWidth <= 0 || sc.CanvasHeight <= 0 {
		sc.CanvasWidth = o.DefaultCanvasW
		sc.CanvasHeight = o.DefaultCanvasH
	}
}

// Save persists the scene. The local fallback copy is always written first
// so work is never lost offline; the remote sync and the template asset
// upload are best effort on top of it.
func (o *Orchestrator) Save(ctx context.Context, eventID, cardType string, sc *scene.Scene) (SaveStatus, error) {
	l := applog.WithOperation(applog.WithComponent("persist"), "save").With(
		slog.String("event", eventID), slog.String("card", cardType),
	)
	var st SaveStatus

	data, err := scene.Encode(sc)
	if err != nil {
		return st, err
	}
	key := storeKey(cardType, eventID)
	if err := o.Local.Set(key, string(data)); err != nil {
		// The local store is the floor; failing it fails the save.
		return st, err
	}

	if eventID == "" || o.Remote == nil {
		return st, nil
	}

	if sc.Template.Transient() && o.Assets != nil {
		url, uerr := o.Assets.UploadAsset(ctx, sc.Template.Data, sc.Template.MIME)
		if uerr != nil {
			l.Warn("asset upload failed", slog.Any("err", uerr))
			st.Partial = true
			st.UploadErr = uerr
		} else {
			sc.Template.URL = url
			sc.Template.Data = nil
			// Refresh the local copy with the durable reference.
			if data, err = scene.Encode(sc); err == nil {
				_ = o.Local.Set(key, string(data))
			}
		}
	}

	if rerr := o.Remote.SaveConfig(ctx, eventID, cardType, scene.ToDTO(sc)); rerr != nil {
		l.Warn("remote save failed", slog.Any("err", rerr))
		st.RemoteErr = rerr
		return st, nil
	}
	st.Synced = true
	l.Info("saved", slog.Bool("partial", st.Partial))
	return st, nil
}
