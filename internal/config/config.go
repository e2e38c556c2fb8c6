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
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type RemoteConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	TLSInsecure bool   `yaml:"tls_insecure"`
	// Token is not stored on disk; it lives in the OS keychain.
}

type EditorConfig struct {
	CanvasWidth   int `yaml:"canvas_width"`
	CanvasHeight  int `yaml:"canvas_height"`
	SnapThreshold int `yaml:"snap_threshold"`
	HistoryLimit  int `yaml:"history_limit"`
}

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
	EnableServer   bool   `yaml:"enable_server"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Remote        RemoteConfig  `yaml:"remote"`
	Editor        EditorConfig  `yaml:"editor"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system", EnableServer: false},
		Remote:        RemoteConfig{BaseURL: "http://localhost:8080", TimeoutMs: 15000, TLSInsecure: false},
		Editor:        EditorConfig{CanvasWidth: 800, CanvasHeight: 1000, SnapThreshold: 15, HistoryLimit: 50},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvRemoteURL        = "CCO_REMOTE_URL"
	EnvRemoteTimeoutMs  = "CCO_REMOTE_TIMEOUT_MS"
	EnvRemoteTLSInsec   = "CCO_TLS_INSECURE"
	EnvTelemetryOptIn   = "CCO_TELEMETRY_OPT_IN"
	EnvEnableServer     = "CCO_ENABLE_SERVER"
	EnvEditorCanvasW    = "CCO_CANVAS_WIDTH"
	EnvEditorCanvasH    = "CCO_CANVAS_HEIGHT"
	EnvEditorSnap       = "CCO_SNAP_THRESHOLD"
	EnvEditorHistLimit  = "CCO_HISTORY_LIMIT"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "CCO_LOG_LEVEL"
	EnvLogFormat = "CCO_LOG_FORMAT"
	EnvLogSource = "CCO_LOG_SOURCE"
	EnvLogFile   = "CCO_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "CardComposer"
	keyringToken   = "remote_token"
)

// TokenStore abstracts the OS keyring, so tests can stub it.
type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

var tokenStore TokenStore = &osKeyring{}

// osKeyring implements TokenStore via github.com/zalando/go-keyring.
type osKeyring struct{}

func (k *osKeyring) Get(service, key string) (string, error) {
	return keyring.Get(service, key)
}
func (k *osKeyring) Set(service, key, value string) error {
	return keyring.Set(service, key, value)
}
func (k *osKeyring) Delete(service, key string) error {
	return keyring.Delete(service, key)
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "CardComposer")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "CardComposer")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "cardcomposer")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment
// overrides. The remote token is loaded from the keyring and returned separately; it
// never lives inside the struct so it cannot end up in a YAML dump.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into the OS keyring (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

// ForgetToken removes the stored remote token from the keyring.
func ForgetToken() error {
	err := tokenStore.Delete(keyringService, keyringToken)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	dst.General.EnableServer = src.General.EnableServer
	if src.Remote.BaseURL != "" {
		dst.Remote.BaseURL = src.Remote.BaseURL
	}
	if src.Remote.TimeoutMs != 0 {
		dst.Remote.TimeoutMs = src.Remote.TimeoutMs
	}
	dst.Remote.TLSInsecure = src.Remote.TLSInsecure
	if src.Editor.CanvasWidth > 0 {
		dst.Editor.CanvasWidth = src.Editor.CanvasWidth
	}
	if src.Editor.CanvasHeight > 0 {
		dst.Editor.CanvasHeight = src.Editor.CanvasHeight
	}
	if src.Editor.SnapThreshold > 0 {
		dst.Editor.SnapThreshold = src.Editor.SnapThreshold
	}
	if src.Editor.HistoryLimit > 0 {
		dst.Editor.HistoryLimit = src.Editor.HistoryLimit
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvRemoteURL)); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRemoteTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Remote.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRemoteTLSInsec)); v != "" {
		cfg.Remote.TLSInsecure = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvEnableServer)); v != "" {
		cfg.General.EnableServer = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvEditorCanvasW)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.CanvasWidth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvEditorCanvasH)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.CanvasHeight = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvEditorSnap)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.SnapThreshold = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvEditorHistLimit)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.HistoryLimit = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "remote.base_url":
		env = EnvRemoteURL
	case "remote.timeout_ms":
		env = EnvRemoteTimeoutMs
	case "remote.tls_insecure":
		env = EnvRemoteTLSInsec
	case "general.telemetry_opt_in":
		env = EnvTelemetryOptIn
	case "general.enable_server":
		env = EnvEnableServer
	case "editor.canvas_width":
		env = EnvEditorCanvasW
	case "editor.canvas_height":
		env = EnvEditorCanvasH
	case "editor.snap_threshold":
		env = EnvEditorSnap
	case "editor.history_limit":
		env = EnvEditorHistLimit
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// EffectiveTimeout returns the remote request timeout as a duration.
func (r RemoteConfig) EffectiveTimeout() time.Duration {
	ms := r.TimeoutMs
	if ms <= 0 {
		ms = Defaults().Remote.TimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}
