/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash /*
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	applog "cardcomposer/internal/log"
	"cardcomposer/internal/persist"
	"cardcomposer/internal/scene"
	"cardcomposer/internal/telemetry"
	"cardcomposer/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Context is what Recover preserves when the editor panics: the live scene
// and the local store the snapshot goes into. Any field may be nil.
type Context struct {
	Scene    *scene.Scene
	Local    persist.LocalStore
	CardType string
}

// Recover captures a panic, logs an error with stacktrace, writes an error
// report file, and attempts a crash-safe snapshot of the current scene into
// the local store.
//
// Usage: defer func(){ crash.Recover(cc) }()
func Recover(cc *Context) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(cc, r, stack)
		if cc != nil && cc.Scene != nil && cc.Local != nil {
			if key, err := snapshotScene(cc); err != nil {
				l.Error("crash snapshot failed", slog.Any("err", err))
			} else {
				l.Info("crash snapshot written", slog.String("key", key))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

// snapshotScene serializes the live scene under a crash-scoped local key so
// the next start can offer recovery.
func snapshotScene(cc *Context) (string, error) {
	data, err := scene.Encode(cc.Scene)
	if err != nil {
		return "", err
	}
	ct := cc.CardType
	if ct == "" {
		ct = "unknown"
	}
	key := "crashsnapshot/" + ct
	if err := cc.Local.Set(key, string(data)); err != nil {
		return "", err
	}
	return key, nil
}

func writeReport(cc *Context, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	stamp := time.Now().Format("20060102-150405")
	fname := fmt.Sprintf("cardcomposer-crash-%s-%s.log", stamp, uuid.NewString()[:8])
	path := filepath.Join(dir, fname)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Card Composer Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if cc != nil && cc.CardType != "" {
		_, _ = fmt.Fprintf(&buf, "CardType: %s\n", cc.CardType)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()

	// optionally upload anonymized crash report (opt-in via env)
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
