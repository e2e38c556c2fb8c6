/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

// memTokenStore replaces the OS keyring in tests.
type memTokenStore struct{ m map[string]string }

func (s *memTokenStore) Get(service, key string) (string, error) {
	v, ok := s.m[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (s *memTokenStore) Set(service, key, value string) error {
	s.m[service+"/"+key] = value
	return nil
}
func (s *memTokenStore) Delete(service, key string) error {
	delete(s.m, service+"/"+key)
	return nil
}

func stubTokenStore(t *testing.T) *memTokenStore {
	t.Helper()
	old := tokenStore
	st := &memTokenStore{m: map[string]string{}}
	tokenStore = st
	t.Cleanup(func() { tokenStore = old })
	return st
}

func TestEnvOverridesRemoteURL(t *testing.T) {
	stubTokenStore(t)
	old := os.Getenv(EnvRemoteURL)
	_ = os.Setenv(EnvRemoteURL, "https://example.test:8443")
	t.Cleanup(func() { _ = os.Setenv(EnvRemoteURL, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Remote.BaseURL, "https://example.test:8443"; got != want {
		t.Fatalf("Remote.BaseURL = %q, want %q", got, want)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	stubTokenStore(t)
	old := os.Getenv(EnvTelemetryOptIn)
	_ = os.Setenv(EnvTelemetryOptIn, "true")
	t.Cleanup(func() { _ = os.Setenv(EnvTelemetryOptIn, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestMergeIncludesEnableServer(t *testing.T) {
	// Given a file config that sets enable_server, mergeInto should carry it through
	dst := Defaults()
	src := Defaults()
	src.General.EnableServer = true
	mergeInto(&dst, &src)
	if !dst.General.EnableServer {
		t.Fatalf("EnableServer was not merged from file config")
	}
}

func TestMergeIncludesEditor(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Editor.CanvasWidth = 1200
	src.Editor.CanvasHeight = 0 // zero keeps default
	src.Editor.SnapThreshold = 8
	src.Editor.HistoryLimit = 100
	mergeInto(&dst, &src)
	if dst.Editor.CanvasWidth != 1200 || dst.Editor.CanvasHeight != Defaults().Editor.CanvasHeight {
		t.Fatalf("canvas dims not merged correctly: %#v", dst.Editor)
	}
	if dst.Editor.SnapThreshold != 8 || dst.Editor.HistoryLimit != 100 {
		t.Fatalf("editor tuning not merged correctly: %#v", dst.Editor)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/cco.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/cco.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	stubTokenStore(t)
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "X:/cco.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/cco.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestTokenRoundTripThroughStore(t *testing.T) {
	st := stubTokenStore(t)
	st.m[keyringService+"/"+keyringToken] = "tok-123"
	_, tok, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tok != "tok-123" {
		t.Fatalf("token from store = %q, want tok-123", tok)
	}
}

func TestEffectiveTimeoutFallsBackToDefault(t *testing.T) {
	r := RemoteConfig{TimeoutMs: 0}
	if got := r.EffectiveTimeout(); got != 15*time.Second {
		t.Fatalf("EffectiveTimeout = %v, want 15s", got)
	}
	r.TimeoutMs = 2500
	if got := r.EffectiveTimeout(); got != 2500*time.Millisecond {
		t.Fatalf("EffectiveTimeout = %v, want 2.5s", got)
	}
}
