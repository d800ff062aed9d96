/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package visualizer owns the live state of one visualization session. It
// turns user intents (drags, key presses, buttons) into state changes, records
// undo checkpoints at gesture boundaries, recomputes the derived scene and
// publishes it to the display.
package visualizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"

	applog "gavisualizer/internal/log"
	"gavisualizer/internal/scene"
	"gavisualizer/internal/state"
	"gavisualizer/internal/undo"
	"gavisualizer/internal/vector"
)

var (
	// ErrZeroVector is returned when normalizing a vector without direction.
	ErrZeroVector = errors.New("cannot normalize the zero vector")
	// ErrNotDragging is returned by drag moves outside a gesture.
	ErrNotDragging = errors.New("no drag gesture in progress")
	// ErrNonFinite is returned for NaN or infinite component values.
	ErrNonFinite = errors.New("value is not a finite number")
)

// Phase is the interaction state of the coordinator.
type Phase int

const (
	PhaseClean Phase = iota
	PhaseDragging
)

func (p Phase) String() string {
	if p == PhaseDragging {
		return "dragging"
	}
	return "clean"
}

// Options configures a Visualizer. Zero values select defaults.
type Options struct {
	Initial      *state.VisualizerState
	Norm         vector.NormKind
	HistoryDepth int
	Display      scene.Display
	Logger       *slog.Logger
}

// Visualizer is the single owner of the live VisualizerState.
// All methods are safe for concurrent use; display callbacks run while the
// internal lock is held and must not call back into the Visualizer.
type Visualizer struct {
	mu      sync.Mutex
	cur     state.VisualizerState
	norm    vector.NormKind
	frame   scene.Frame
	hist    *undo.Manager[state.VisualizerState]
	display scene.Display
	log     *slog.Logger

	phase   Phase
	dragKey state.Key
	gesture string
	dirty   bool
}

// New builds a coordinator and publishes the initial frame and visibility.
func New(opts Options) *Visualizer {
	cur := state.Default()
	if opts.Initial != nil {
		cur = opts.Initial.Clone()
	}
	norm := opts.Norm
	if norm == "" {
		norm = vector.NormL2
	}
	d := opts.Display
	if d == nil {
		d = scene.NopDisplay{}
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("visualizer")
	}
	v := &Visualizer{
		cur:     cur,
		norm:    norm,
		hist:    undo.NewManager[state.VisualizerState](undo.Config{MaxDepth: opts.HistoryDepth}),
		display: d,
		log:     l,
	}
	v.frame = scene.Compute(cur.Vector, norm)
	v.publishLocked(true, true)
	return v
}

// State returns a copy of the live state.
func (v *Visualizer) State() state.VisualizerState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur.Clone()
}

// Frame returns the derived quantities for the live state.
func (v *Visualizer) Frame() scene.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frame
}

// Phase reports whether a drag gesture is in progress.
func (v *Visualizer) Phase() Phase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

// Norm returns the metric used for magnitudes.
func (v *Visualizer) Norm() vector.NormKind {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.norm
}

// SetState replaces the whole state, recomputes everything and resyncs all
// visibility flags. The previous state is undoable.
func (v *Visualizer) SetState(s state.VisualizerState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if s != v.cur && v.phase != PhaseDragging {
		v.hist.Checkpoint(v.cur, "set state")
	}
	v.cur = s.Clone()
	v.frame = scene.Compute(v.cur.Vector, v.norm)
	v.publishLocked(true, true)
}

// LoadJSON validates and applies an externally supplied state document.
// On any error the live state is left untouched.
func (v *Visualizer) LoadJSON(data []byte) error {
	s, err := state.Decode(data)
	if err != nil {
		v.log.Warn("rejected state document", slog.Any("err", err))
		return err
	}
	v.SetState(s)
	return nil
}

// MarshalState encodes the live state as JSON.
func (v *Visualizer) MarshalState() ([]byte, error) {
	return state.Encode(v.State())
}

// MutateComponent sets one component of one vector. Outside a drag gesture
// this is a discrete, undoable action; inside one it only moves the vector.
func (v *Visualizer) MutateComponent(k state.Key, axis state.Axis, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s.%s: %w", k, axis, ErrNonFinite)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	vs, err := v.cur.Vector.With(k, axis, value)
	if err != nil {
		return err
	}
	next := v.cur
	next.Vector = vs
	v.commitLocked(fmt.Sprintf("set %s.%s", k, axis), next)
	return nil
}

// BeginDrag starts a pointer gesture on vector k and records one checkpoint
// for the whole gesture. An unfinished gesture is ended first.
func (v *Visualizer) BeginDrag(k state.Key) error {
	if _, err := (state.VectorState{}).Get(k); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.phase == PhaseDragging {
		v.endDragLocked()
	}
	v.hist.Checkpoint(v.cur, "drag "+string(k))
	v.phase = PhaseDragging
	v.dragKey = k
	v.gesture = uuid.NewString()
	v.log.DebugContext(v.scopeLocked(), "drag start")
	return nil
}

// DragTo moves one component during a gesture without touching history.
func (v *Visualizer) DragTo(k state.Key, axis state.Axis, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s.%s: %w", k, axis, ErrNonFinite)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.phase != PhaseDragging {
		return ErrNotDragging
	}
	vs, err := v.cur.Vector.With(k, axis, value)
	if err != nil {
		return err
	}
	v.applyVectorsLocked(vs)
	return nil
}

// DragPoint moves vector k to p during a gesture.
func (v *Visualizer) DragPoint(k state.Key, p vector.Vec) error {
	if !p.IsFinite() {
		return fmt.Errorf("%s: %w", k, ErrNonFinite)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.phase != PhaseDragging {
		return ErrNotDragging
	}
	vs, err := v.cur.Vector.Set(k, p)
	if err != nil {
		return err
	}
	v.applyVectorsLocked(vs)
	return nil
}

// EndDrag finishes the current gesture. It is a no-op when none is active.
func (v *Visualizer) EndDrag() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.phase == PhaseDragging {
		v.endDragLocked()
	}
}

// ToggleVisibility flips one visibility flag as an undoable action.
func (v *Visualizer) ToggleVisibility(k state.VisKey) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	vis, err := v.cur.Visibility.Toggle(k)
	if err != nil {
		return err
	}
	next := v.cur
	next.Visibility = vis
	v.commitLocked("toggle "+string(k), next)
	return nil
}

// Normalize scales vector k to unit length. The zero vector is rejected with
// ErrZeroVector, a non-finite result with ErrNonFinite; either way the state
// is left unchanged.
func (v *Visualizer) Normalize(k state.Key) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	cur, err := v.cur.Vector.Get(k)
	if err != nil {
		return err
	}
	if cur.IsZero() {
		return fmt.Errorf("normalize %s: %w", k, ErrZeroVector)
	}
	n := cur.Normalize()
	if !n.IsFinite() {
		return fmt.Errorf("normalize %s: %w", k, ErrNonFinite)
	}
	vs, _ := v.cur.Vector.Set(k, n)
	next := v.cur
	next.Vector = vs
	v.commitLocked("normalize "+string(k), next)
	return nil
}

// LoadExample replaces the state with a catalog entry as an undoable action.
func (v *Visualizer) LoadExample(name string) error {
	e, err := state.Example(name)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.commitLocked("example "+name, e.Apply(v.cur))
	return nil
}

// Reset restores the startup defaults as an undoable action.
func (v *Visualizer) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.commitLocked("reset", state.Default())
}

// Undo restores the previous state. It reports false when there is none.
func (v *Visualizer) Undo() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.phase == PhaseDragging {
		v.endDragLocked()
	}
	s, ok := v.hist.Undo(v.cur)
	if !ok {
		return false
	}
	v.restoreLocked(s)
	v.log.DebugContext(v.scopeLocked(), "undo")
	return true
}

// Redo reapplies the most recently undone state.
func (v *Visualizer) Redo() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.phase == PhaseDragging {
		v.endDragLocked()
	}
	s, ok := v.hist.Redo(v.cur)
	if !ok {
		return false
	}
	v.restoreLocked(s)
	v.log.DebugContext(v.scopeLocked(), "redo")
	return true
}

// CanUndo reports whether Undo would change anything.
func (v *Visualizer) CanUndo() bool { return v.hist.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (v *Visualizer) CanRedo() bool { return v.hist.CanRedo() }

// HistoryDepth returns the sizes of the undo and redo stacks.
func (v *Visualizer) HistoryDepth() (undoDepth, redoDepth int) { return v.hist.Stats() }

// SetNorm switches the metric used for magnitudes. This is a view preference
// and is not recorded in history.
func (v *Visualizer) SetNorm(k vector.NormKind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if k == v.norm {
		return
	}
	v.norm = k
	v.frame = scene.Compute(v.cur.Vector, k)
	v.publishLocked(true, false)
}

// ConsumeDirty reports whether anything changed since the last call and
// clears the flag. Render loops use it to skip redundant redraws.
func (v *Visualizer) ConsumeDirty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	d := v.dirty
	v.dirty = false
	return d
}

// commitLocked applies next as one discrete action: a checkpoint of the
// current state is recorded first unless a drag gesture already holds one.
func (v *Visualizer) commitLocked(label string, next state.VisualizerState) {
	if next == v.cur {
		return
	}
	if v.phase != PhaseDragging {
		v.hist.Checkpoint(v.cur, label)
	}
	v.log.DebugContext(v.scopeLocked(), "commit", slog.String("action", label))
	v.restoreLocked(next)
}

// restoreLocked swaps in s and republishes whatever part changed.
func (v *Visualizer) restoreLocked(s state.VisualizerState) {
	vectorsChanged := s.Vector != v.cur.Vector
	visChanged := s.Visibility != v.cur.Visibility
	v.cur = s
	if vectorsChanged {
		v.frame = scene.Compute(s.Vector, v.norm)
	}
	v.publishLocked(vectorsChanged, visChanged)
}

func (v *Visualizer) applyVectorsLocked(vs state.VectorState) {
	if vs == v.cur.Vector {
		return
	}
	v.cur.Vector = vs
	v.frame = scene.Compute(vs, v.norm)
	v.publishLocked(true, false)
}

func (v *Visualizer) publishLocked(frame, visibility bool) {
	if frame {
		v.display.Update(v.frame)
	}
	if visibility {
		v.display.SetVisibility(v.cur.Visibility)
	}
	if frame || visibility {
		v.dirty = true
	}
}

func (v *Visualizer) endDragLocked() {
	v.log.DebugContext(v.scopeLocked(), "drag end")
	v.phase = PhaseClean
	v.dragKey = ""
	v.gesture = ""
}

// scopeLocked tags log records with the active gesture, dragged vector and
// norm.
func (v *Visualizer) scopeLocked() context.Context {
	return applog.WithScope(context.Background(), applog.Scope{
		Gesture: v.gesture,
		Vector:  string(v.dragKey),
		Norm:    string(v.norm),
	})
}
