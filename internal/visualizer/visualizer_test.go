/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package visualizer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	applog "gavisualizer/internal/log"
	"gavisualizer/internal/scene"
	"gavisualizer/internal/state"
	"gavisualizer/internal/vector"
)

func newTest(t *testing.T) (*Visualizer, *scene.Recorder) {
	t.Helper()
	rec := &scene.Recorder{}
	v := New(Options{Display: rec, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	return v, rec
}

func TestNewPublishesInitialFrame(t *testing.T) {
	v, rec := newTest(t)
	f, vis := rec.Last()
	if f.Vectors != state.Default().Vector || vis != state.Default().Visibility {
		t.Fatalf("initial publish mismatch")
	}
	if !v.ConsumeDirty() || v.ConsumeDirty() {
		t.Fatalf("dirty flag should be set once after construction")
	}
}

func TestMutateUndoRedo(t *testing.T) {
	v, rec := newTest(t)
	s0 := v.State()
	if err := v.MutateComponent(state.KeyA, state.AxisX, 5); err != nil {
		t.Fatalf("MutateComponent: %v", err)
	}
	s1 := v.State()
	if s1.Vector.A.X != 5 {
		t.Fatalf("mutation not applied: %+v", s1.Vector.A)
	}
	if f, _ := rec.Last(); f.Vectors.A.X != 5 {
		t.Fatalf("display not updated")
	}
	if !v.Undo() || !v.State().Equal(s0) {
		t.Fatalf("undo should return to S0, got %+v", v.State())
	}
	if !v.Redo() || !v.State().Equal(s1) {
		t.Fatalf("redo should return to S1, got %+v", v.State())
	}
	if v.Redo() {
		t.Fatalf("redo past the end should report false")
	}
}

func TestDragGestureRecordsOneEntry(t *testing.T) {
	v, _ := newTest(t)
	s0 := v.State()
	if err := v.BeginDrag(state.KeyB); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if v.Phase() != PhaseDragging {
		t.Fatalf("expected dragging phase")
	}
	for i := 1; i <= 20; i++ {
		if err := v.DragPoint(state.KeyB, vector.V(float64(i)/10, 1)); err != nil {
			t.Fatalf("DragPoint: %v", err)
		}
	}
	if err := v.DragTo(state.KeyB, state.AxisY, 3); err != nil {
		t.Fatalf("DragTo: %v", err)
	}
	v.EndDrag()
	if v.Phase() != PhaseClean {
		t.Fatalf("expected clean phase after EndDrag")
	}
	if u, _ := v.HistoryDepth(); u != 1 {
		t.Fatalf("continuous drag should produce one entry, got %d", u)
	}
	if got := v.State().Vector.B; got != vector.V(2, 3) {
		t.Fatalf("B after drag = %v", got)
	}
	v.Undo()
	if !v.State().Equal(s0) {
		t.Fatalf("undo should restore the pre-drag state")
	}
}

func TestDragOutsideGestureFails(t *testing.T) {
	v, _ := newTest(t)
	if err := v.DragTo(state.KeyA, state.AxisX, 1); !errors.Is(err, ErrNotDragging) {
		t.Fatalf("expected ErrNotDragging, got %v", err)
	}
	if err := v.BeginDrag("Q"); !errors.Is(err, state.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestRepeatedDragStartWithoutMoveIsCoalesced(t *testing.T) {
	v, _ := newTest(t)
	for i := 0; i < 3; i++ {
		_ = v.BeginDrag(state.KeyA)
		v.EndDrag()
	}
	if u, _ := v.HistoryDepth(); u != 1 {
		t.Fatalf("identical snapshots should be pushed once, got %d", u)
	}
}

func TestMutationClearsRedo(t *testing.T) {
	v, _ := newTest(t)
	_ = v.MutateComponent(state.KeyC, state.AxisY, 2)
	v.Undo()
	if !v.CanRedo() {
		t.Fatalf("expected redo after undo")
	}
	_ = v.MutateComponent(state.KeyC, state.AxisX, -2)
	if v.CanRedo() {
		t.Fatalf("new mutation must clear redo")
	}
}

func TestNoOpMutationRecordsNothing(t *testing.T) {
	v, _ := newTest(t)
	a := v.State().Vector.A
	_ = v.MutateComponent(state.KeyA, state.AxisX, a.X)
	if v.CanUndo() {
		t.Fatalf("setting the same value should not create history")
	}
}

func TestHistoryCap(t *testing.T) {
	v, _ := newTest(t)
	for i := 0; i < 60; i++ {
		_ = v.MutateComponent(state.KeyA, state.AxisX, float64(i+10))
	}
	if u, _ := v.HistoryDepth(); u != 50 {
		t.Fatalf("expected 50 undo entries, got %d", u)
	}
}

func TestNormalize(t *testing.T) {
	v, _ := newTest(t)
	_ = v.MutateComponent(state.KeyA, state.AxisX, 3)
	_ = v.MutateComponent(state.KeyA, state.AxisY, 4)
	if err := v.Normalize(state.KeyA); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	a := v.State().Vector.A
	if a != vector.V(0.6, 0.8) || vector.Norm2(a) != 1 {
		t.Fatalf("normalized A = %v", a)
	}
	_ = v.MutateComponent(state.KeyB, state.AxisX, 0)
	_ = v.MutateComponent(state.KeyB, state.AxisY, 0)
	before := v.State()
	depth, _ := v.HistoryDepth()
	if err := v.Normalize(state.KeyB); !errors.Is(err, ErrZeroVector) {
		t.Fatalf("expected ErrZeroVector, got %v", err)
	}
	if v.State() != before {
		t.Fatalf("failed normalize must not change state")
	}
	if d, _ := v.HistoryDepth(); d != depth {
		t.Fatalf("failed normalize must not record history")
	}
}

func TestNormalizeExtremeMagnitudes(t *testing.T) {
	v, _ := newTest(t)
	for _, x := range []float64{1e-200, 1e200} {
		if err := v.MutateComponent(state.KeyA, state.AxisX, x); err != nil {
			t.Fatalf("set A.x: %v", err)
		}
		if err := v.MutateComponent(state.KeyA, state.AxisY, 0); err != nil {
			t.Fatalf("set A.y: %v", err)
		}
		if err := v.Normalize(state.KeyA); err != nil {
			t.Fatalf("Normalize with A.x=%g: %v", x, err)
		}
		if a := v.State().Vector.A; a != vector.V(1, 0) {
			t.Fatalf("A.x=%g normalized to %v", x, a)
		}
		if _, err := v.MarshalState(); err != nil {
			t.Fatalf("MarshalState after normalize: %v", err)
		}
	}
}

func TestNormalizeRejectsNonFiniteResult(t *testing.T) {
	v, _ := newTest(t)
	s := v.State()
	s.Vector.C = vector.V(math.Inf(1), 0)
	v.SetState(s)
	depth, _ := v.HistoryDepth()
	if err := v.Normalize(state.KeyC); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
	if got := v.State().Vector.C; got.X != math.Inf(1) || got.Y != 0 {
		t.Fatalf("failed normalize changed C to %v", got)
	}
	if d, _ := v.HistoryDepth(); d != depth {
		t.Fatalf("failed normalize must not record history")
	}
}

func TestToggleVisibilityOnlyResyncsVisibility(t *testing.T) {
	v, rec := newTest(t)
	u0, vis0 := rec.Counts()
	if err := v.ToggleVisibility(state.VisProdABC); err != nil {
		t.Fatalf("ToggleVisibility: %v", err)
	}
	u1, vis1 := rec.Counts()
	if u1 != u0 || vis1 != vis0+1 {
		t.Fatalf("toggle should only refresh visibility: updates %d->%d, vis %d->%d", u0, u1, vis0, vis1)
	}
	if !v.State().Visibility.ProdABC {
		t.Fatalf("flag not toggled")
	}
	v.Undo()
	if v.State().Visibility.ProdABC {
		t.Fatalf("toggle should be undoable")
	}
	if err := v.ToggleVisibility("bogus"); !errors.Is(err, state.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestLoadExampleAndReset(t *testing.T) {
	v, _ := newTest(t)
	c := v.State().Vector.C
	if err := v.LoadExample("dot-orthogonal"); err != nil {
		t.Fatalf("LoadExample: %v", err)
	}
	s := v.State()
	if s.Vector.A != vector.V(1, 0) || s.Vector.B != vector.V(0, 1) || s.Vector.C != c {
		t.Fatalf("unexpected vectors: %+v", s.Vector)
	}
	if s.Visibility != (state.Visibility{A: true, B: true, Brot: true, Dot: true}) {
		t.Fatalf("unexpected visibility: %+v", s.Visibility)
	}
	if err := v.LoadExample("nope"); !errors.Is(err, state.ErrUnknownExample) {
		t.Fatalf("expected ErrUnknownExample, got %v", err)
	}
	v.Reset()
	if v.State() != state.Default() {
		t.Fatalf("reset should restore defaults")
	}
	v.Undo()
	if v.State() != s {
		t.Fatalf("reset should be undoable")
	}
}

func TestLoadJSON(t *testing.T) {
	v, rec := newTest(t)
	before := v.State()
	if err := v.LoadJSON([]byte(`{"vector":{}}`)); !errors.Is(err, state.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if v.State() != before || v.CanUndo() {
		t.Fatalf("malformed input must leave state and history unchanged")
	}
	doc := `{"vector":{"A":{"x":1,"y":1},"B":{"x":2,"y":0},"C":{"x":0,"y":-1}},
		"visibility":{"a":true,"b":false,"c":true,"brot":false,"dot":false,"wedge":true,"prodABC":true,"prodCAB":false}}`
	u0, vis0 := rec.Counts()
	if err := v.LoadJSON([]byte(doc)); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if u1, vis1 := rec.Counts(); u1 != u0+1 || vis1 != vis0+1 {
		t.Fatalf("SetState should fully resync the display")
	}
	if v.State().Vector.B != vector.V(2, 0) || !v.State().Visibility.ProdABC {
		t.Fatalf("state not loaded: %+v", v.State())
	}
	data, err := v.MarshalState()
	if err != nil {
		t.Fatalf("MarshalState: %v", err)
	}
	back, err := state.Decode(data)
	if err != nil || back != v.State() {
		t.Fatalf("marshal round trip failed: %v", err)
	}
}

func TestSetNormRecomputesWithoutHistory(t *testing.T) {
	v, _ := newTest(t)
	v.SetNorm(vector.NormL1)
	if v.Norm() != vector.NormL1 {
		t.Fatalf("norm not switched")
	}
	a := v.State().Vector.A
	if got := v.Frame().Norms.A; got != vector.Norm1(a) {
		t.Fatalf("frame norms not recomputed: %g", got)
	}
	if v.CanUndo() {
		t.Fatalf("norm switch must not create history")
	}
}

func TestNonFiniteRejected(t *testing.T) {
	v, _ := newTest(t)
	nan := vector.Zero.Normalize().X
	if err := v.MutateComponent(state.KeyA, state.AxisX, nan); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
	_ = v.BeginDrag(state.KeyA)
	if err := v.DragPoint(state.KeyA, vector.V(nan, 0)); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
	v.EndDrag()
}

func TestUndoEndsActiveDrag(t *testing.T) {
	v, _ := newTest(t)
	s0 := v.State()
	_ = v.BeginDrag(state.KeyC)
	_ = v.DragPoint(state.KeyC, vector.V(4, 4))
	if !v.Undo() {
		t.Fatalf("undo during drag should restore the pre-drag state")
	}
	if v.Phase() != PhaseClean || v.State() != s0 {
		t.Fatalf("expected clean phase and S0, got %v %+v", v.Phase(), v.State())
	}
}

// scopeRecorder keeps the log scope of every record it sees.
type scopeRecorder struct {
	mu     sync.Mutex
	scopes map[string]applog.Scope
}

func (r *scopeRecorder) Enabled(context.Context, slog.Level) bool { return true }
func (r *scopeRecorder) Handle(ctx context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes[rec.Message] = applog.ScopeFrom(ctx)
	return nil
}
func (r *scopeRecorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *scopeRecorder) WithGroup(string) slog.Handler      { return r }

func TestDragLogsCarryScope(t *testing.T) {
	rec := &scopeRecorder{scopes: map[string]applog.Scope{}}
	v := New(Options{Logger: slog.New(rec), Norm: vector.NormL1})
	if err := v.BeginDrag(state.KeyB); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	_ = v.DragTo(state.KeyB, state.AxisX, 2)
	v.EndDrag()

	start, end := rec.scopes["drag start"], rec.scopes["drag end"]
	if start.Gesture == "" || start.Gesture != end.Gesture {
		t.Fatalf("gesture ids: start %q end %q", start.Gesture, end.Gesture)
	}
	if start.Vector != "B" || start.Norm != "l1" {
		t.Fatalf("start scope = %+v", start)
	}
	if !v.Undo() {
		t.Fatalf("undo failed")
	}
	if u := rec.scopes["undo"]; u.Gesture != "" || u.Vector != "" || u.Norm != "l1" {
		t.Fatalf("undo scope = %+v", u)
	}
}
