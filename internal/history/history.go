/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history is pure undo/redo bookkeeping: a bounded sequence of
// element-map snapshots plus a cursor. It knows nothing about why a snapshot
// was taken. Callers seed it by committing the loaded state once, then
// commit again after every finalized mutation.
package history

import (
	"sync"

	"cardcomposer/internal/scene"
)

// DefaultLimit is the maximum number of retained snapshots.
const DefaultLimit = 50

// Snapshot is one committed state of the element map. Canvas dimensions and
// template reference live outside history.
type Snapshot map[string]scene.Element

// Manager holds the snapshot sequence and a cursor pointing at the snapshot
// representing the current state. Safe for concurrent use.
type Manager struct {
	limit int

	mu      sync.Mutex
	entries []Snapshot
	cursor  int
}

// NewManager creates an empty manager. limit <= 0 uses DefaultLimit.
func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit, cursor: -1}
}

// Commit records a new snapshot: any undone "future" beyond the cursor is
// discarded, the snapshot is appended, and the oldest entries are dropped
// from the front once the limit is exceeded. After a commit, redo is
// unavailable until the next undo.
func (m *Manager) Commit(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries[:m.cursor+1], s)
	m.cursor = len(m.entries) - 1
	if over := len(m.entries) - m.limit; over > 0 {
		m.entries = append([]Snapshot{}, m.entries[over:]...)
		m.cursor -= over
	}
}

// Undo steps the cursor back one snapshot and returns it. At the oldest
// retained snapshot (or on an empty manager) it is a no-op and returns the
// current state unchanged.
func (m *Manager) Undo() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor <= 0 {
		return m.currentLocked(), false
	}
	m.cursor--
	return m.entries[m.cursor], true
}

// Redo steps the cursor forward again. A no-op at the tail.
func (m *Manager) Redo() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor >= len(m.entries)-1 {
		return m.currentLocked(), false
	}
	m.cursor++
	return m.entries[m.cursor], true
}

func (m *Manager) currentLocked() Snapshot {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return m.entries[m.cursor]
}

// CanUndo reports whether a step back is available.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

// CanRedo reports whether a previously undone step can be reapplied.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.entries)-1
}

// Len returns the number of retained snapshots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
