/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// DefaultMaxDepth bounds the undo stack when Config.MaxDepth is not set.
const DefaultMaxDepth = 50

// Snapshot is a value that can be copied and compared for the purpose of
// suppressing redundant history entries.
type Snapshot[T any] interface {
	Clone() T
	Equal(T) bool
}

// Entry is one recorded state with the action that was about to replace it.
type Entry[T any] struct {
	State T
	Label string
	TS    time.Time
}

// Config controls the depth cap.
type Config struct {
	// MaxDepth limits the undo stack; the oldest entry is evicted first.
	MaxDepth int
}

// Manager provides bounded undo/redo stacks of state snapshots.
// The caller owns the live state and hands it in on every call; the manager
// only keeps copies. It is safe for concurrent use.
type Manager[T Snapshot[T]] struct {
	cfg  Config
	mu   sync.Mutex
	undo []Entry[T]
	redo []Entry[T]
	// lastSaved caches the most recent checkpoint so identical consecutive
	// snapshots are pushed only once.
	lastSaved *T
	now       func() time.Time
}

func NewManager[T Snapshot[T]](cfg Config) *Manager[T] {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &Manager[T]{cfg: cfg, now: time.Now}
}

// Checkpoint records live before a mutation. It returns false without
// recording anything when live equals the last checkpoint. Any recorded
// checkpoint clears the redo stack.
func (m *Manager[T]) Checkpoint(live T, label string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastSaved != nil && (*m.lastSaved).Equal(live) {
		return false
	}
	snap := live.Clone()
	m.undo = append(m.undo, Entry[T]{State: snap, Label: label, TS: m.now()})
	m.redo = nil
	m.lastSaved = &snap
	m.enforceCapsLocked()
	return true
}

// Undo swaps live for the newest undo entry. The live state moves onto the
// redo stack. ok is false when there is nothing to undo.
func (m *Manager[T]) Undo(live T) (restored T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.undo)
	if n == 0 {
		return restored, false
	}
	e := m.undo[n-1]
	m.undo = m.undo[:n-1]
	m.redo = append(m.redo, Entry[T]{State: live.Clone(), Label: e.Label, TS: m.now()})
	m.syncLastSavedLocked()
	return e.State.Clone(), true
}

// Redo reverses the most recent Undo.
func (m *Manager[T]) Redo(live T) (restored T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.redo)
	if n == 0 {
		return restored, false
	}
	e := m.redo[n-1]
	m.redo = m.redo[:n-1]
	m.undo = append(m.undo, Entry[T]{State: live.Clone(), Label: e.Label, TS: m.now()})
	m.enforceCapsLocked()
	m.syncLastSavedLocked()
	return e.State.Clone(), true
}

// CanUndo reports whether Undo would restore something.
func (m *Manager[T]) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether Redo would restore something.
func (m *Manager[T]) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// PeekUndo returns the label of the entry Undo would restore.
func (m *Manager[T]) PeekUndo() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.undo) == 0 {
		return "", false
	}
	return m.undo[len(m.undo)-1].Label, true
}

// Clear drops both stacks and the checkpoint cache.
func (m *Manager[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = nil
	m.redo = nil
	m.lastSaved = nil
}

// Stats returns current stack sizes for diagnostics.
func (m *Manager[T]) Stats() (undoDepth int, redoDepth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}

// UndoStates returns copies of the undo stack, oldest first.
func (m *Manager[T]) UndoStates() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, len(m.undo))
	for i, e := range m.undo {
		out[i] = e.State.Clone()
	}
	return out
}

func (m *Manager[T]) syncLastSavedLocked() {
	if n := len(m.undo); n > 0 {
		top := m.undo[n-1].State
		m.lastSaved = &top
		return
	}
	m.lastSaved = nil
}

func (m *Manager[T]) enforceCapsLocked() {
	if len(m.undo) > m.cfg.MaxDepth {
		// drop the oldest extras
		toDrop := len(m.undo) - m.cfg.MaxDepth
		m.undo = append([]Entry[T]{}, m.undo[toDrop:]...)
	}
}
