/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	applog "cardcomposer/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// LocalDirName holds the per-user editor state.
	LocalDirName  = ".cardcomposer"
	LocalFileName = "local.sqlite"
)

const createKVSQL = `CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// LocalKV is the sqlite-backed LocalStore. Reads and writes are synchronous
// and it is created eagerly at editor start so the fallback path never has
// a reason to fail later.
type LocalKV struct {
	db *sql.DB
}

// DefaultLocalPath returns the per-user path of the fallback database.
func DefaultLocalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, LocalDirName, LocalFileName), nil
}

// OpenLocalKV opens (creating if needed) the fallback store at path,
// enables WAL mode, and ensures the kv table exists.
func OpenLocalKV(path string) (*LocalKV, error) {
	l := applog.WithOperation(applog.WithComponent("persist"), "local_open").With(
		slog.String("path", path),
	)
	if path == "" {
		return nil, errors.New("local store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create local dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create local dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(createKVSQL); err != nil {
		_ = db.Close()
		l.Error("ensure kv table failed", slog.Any("err", err))
		return nil, fmt.Errorf("ensure kv table: %w", err)
	}
	return &LocalKV{db: db}, nil
}

// Close releases the underlying database.
func (s *LocalKV) Close() error { return s.db.Close() }

// Get returns the stored value for key.
func (s *LocalKV) Get(key string) (string, bool) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err != nil {
		return "", false
	}
	return v, true
}

// Set stores value under key, replacing any previous value.
func (s *LocalKV) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv(key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes key. Deleting an absent key is not an error.
func (s *LocalKV) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}
