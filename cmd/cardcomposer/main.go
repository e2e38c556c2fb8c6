/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cardcomposer/internal/config"
	"cardcomposer/internal/crash"
	"cardcomposer/internal/export"
	applog "cardcomposer/internal/log"
	"cardcomposer/internal/persist"
	"cardcomposer/internal/remote"
	"cardcomposer/internal/render"
	"cardcomposer/internal/scene"
	"cardcomposer/internal/server"
	"cardcomposer/internal/textmeasure"
	"cardcomposer/internal/version"
)

func usage() {
	fmt.Println("Card Composer — event card layout tool")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cardcomposer version|-v|--version               Show version")
	fmt.Println("  cardcomposer init <cardType> [event]             Seed a card config with the starter layout")
	fmt.Println("  cardcomposer open <cardType> [event]             Load a card config and print a summary")
	fmt.Println("  cardcomposer save <cardType> [event] <file>      Import a card config JSON and save it")
	fmt.Println("  cardcomposer export-png <cardType> [event] <out> Rasterize a card config to a PNG file")
	fmt.Println("  cardcomposer export-pdf <out> <cardType...>      Write a PDF proof sheet of card configs")
	fmt.Println("  cardcomposer serve                               Run the config API server")
}

func main() {
	cfg, token, _ := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")

	cc := &crash.Context{}
	defer func() { crash.Recover(cc) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) <= 1 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Card Composer — event card layout tool")
		fmt.Println(version.String())
	case "init":
		if len(args) < 3 {
			fmt.Println("init requires <cardType>")
			usage()
			os.Exit(2)
		}
		cardType, eventID := args[2], optional(args, 3)
		sc := scene.Starter(cfg.Editor.CanvasWidth, cfg.Editor.CanvasHeight)
		cc.CardType, cc.Scene = cardType, sc
		o := newOrchestrator(cfg, token, l)
		st, err := o.Save(ctx, eventID, cardType, sc)
		if err != nil {
			fail(l, "init", err)
		}
		fmt.Printf("Seeded %q with %d elements.\n", cardType, sc.Len())
		reportSave(st)
	case "open", "show":
		if len(args) < 3 {
			fmt.Println("open requires <cardType>")
			usage()
			os.Exit(2)
		}
		cardType, eventID := args[2], optional(args, 3)
		o := newOrchestrator(cfg, token, l)
		cc.CardType = cardType
		res := o.Load(ctx, eventID, cardType)
		cc.Scene = res.Scene
		if res.Warn != nil {
			fmt.Println("Warning:", res.Warn)
		}
		fmt.Printf("Source: %s\n", res.Source)
		fmt.Printf("Canvas: %dx%d\n", res.Scene.CanvasWidth, res.Scene.CanvasHeight)
		fmt.Printf("Elements: %d\n", res.Scene.Len())
		for _, it := range res.Scene.Ordered() {
			fmt.Printf("  %-20s %-5s z=%d at (%.0f, %.0f)\n", it.Key, it.Element.Kind, it.Element.ZIndex, it.Element.X, it.Element.Y)
		}
	case "save":
		if len(args) < 4 {
			fmt.Println("save requires <cardType> [event] <file>")
			usage()
			os.Exit(2)
		}
		cardType := args[2]
		eventID, file := "", args[3]
		if len(args) >= 5 {
			eventID, file = args[3], args[4]
		}
		data, err := os.ReadFile(file)
		if err != nil {
			fail(l, "read config", err)
		}
		sc, err := scene.Decode(data)
		if err != nil {
			fail(l, "decode config", err)
		}
		cc.CardType, cc.Scene = cardType, sc
		o := newOrchestrator(cfg, token, l)
		st, err := o.Save(ctx, eventID, cardType, sc)
		if err != nil {
			fail(l, "save", err)
		}
		reportSave(st)
	case "export-png":
		if len(args) < 4 {
			fmt.Println("export-png requires <cardType> [event] <out>")
			usage()
			os.Exit(2)
		}
		cardType := args[2]
		eventID, out := "", args[3]
		if len(args) >= 5 {
			eventID, out = args[3], args[4]
		}
		o := newOrchestrator(cfg, token, l)
		cc.CardType = cardType
		res := o.Load(ctx, eventID, cardType)
		cc.Scene = res.Scene
		m := textmeasure.Measurer{}
		if err := export.WriteCardPNG(out, res.Scene, m.Height, render.RasterOptions{}); err != nil {
			fail(l, "export png", err)
		}
		abs, _ := filepath.Abs(out)
		fmt.Println("Wrote", abs)
	case "export-pdf":
		if len(args) < 4 {
			fmt.Println("export-pdf requires <out> and at least one <cardType>")
			usage()
			os.Exit(2)
		}
		out := args[2]
		o := newOrchestrator(cfg, token, l)
		m := textmeasure.Measurer{}
		var sheets []export.Sheet
		for _, cardType := range args[3:] {
			res := o.Load(ctx, "", cardType)
			sheets = append(sheets, export.Sheet{Title: cardType, Scene: res.Scene})
		}
		if err := export.WriteProofSheetPDF(out, sheets, export.PDFOptions{TextHeight: m.Height}); err != nil {
			fail(l, "export pdf", err)
		}
		abs, _ := filepath.Abs(out)
		fmt.Println("Wrote", abs)
	case "serve":
		if err := server.Start(); err != nil {
			fail(l, "server", err)
		}
	default:
		usage()
	}
}

func reportSave(st persist.SaveStatus) {
	switch {
	case st.Synced:
		fmt.Println("Saved locally and synced to the server.")
	case st.Partial:
		fmt.Println("Saved; template upload failed, remote copy holds a transient template.")
	default:
		fmt.Println("Saved locally; the server copy was not updated.")
		if st.RemoteErr != nil {
			fmt.Println("Remote error:", st.RemoteErr)
		}
	}
}

func optional(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

func fail(l *slog.Logger, op string, err error) {
	l.Error(op+" failed", slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

// newOrchestrator wires the persistence stack from user configuration:
// remote API client, sqlite fallback store, and the image prober.
func newOrchestrator(cfg config.AppConfig, token string, l *slog.Logger) *persist.Orchestrator {
	path, err := persist.DefaultLocalPath()
	if err != nil {
		fail(l, "resolve local store", err)
	}
	local, err := persist.OpenLocalKV(path)
	if err != nil {
		fail(l, "open local store", err)
	}
	opts := []remote.Option{remote.WithTimeout(cfg.Remote.EffectiveTimeout())}
	if cfg.Remote.TLSInsecure {
		opts = append(opts, remote.WithTLSInsecure())
	}
	client := remote.NewClient(cfg.Remote.BaseURL, token, opts...)
	return &persist.Orchestrator{
		Remote:         client,
		Assets:         client,
		Local:          local,
		Prober:         render.Prober{},
		DefaultCanvasW: cfg.Editor.CanvasWidth,
		DefaultCanvasH: cfg.Editor.CanvasHeight,
	}
}
