/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"math"

	"gavisualizer/internal/scene"
	"gavisualizer/internal/state"
	"gavisualizer/internal/vector"
	"gavisualizer/internal/visualizer"
)

const (
	// SliderRange bounds each component slider to [-SliderRange, SliderRange].
	SliderRange = 5.0
	// SliderStep is the slider resolution in world units.
	SliderStep = 0.05
	// HandleTolerance is the pick radius around a vector tip in canvas units.
	HandleTolerance = 12.0

	// SnapDistance is the snap radius in canvas units.
	SnapDistance = 8.0
	// SnapGrid is the grid spacing dragged tips snap to, in world units.
	SnapGrid = 0.5

	minZoom = 10.0
	maxZoom = 400.0
)

// DefaultZoom fits a ±4.5 unit square into a w×h canvas.
func DefaultZoom(w, h float64) float64 {
	return ClampZoom(math.Min(w, h) / 2 / 4.5)
}

// ClampZoom keeps canvas units per world unit inside a usable range.
func ClampZoom(z float64) float64 {
	return math.Max(minZoom, math.Min(maxZoom, z))
}

// ToWorld maps a canvas position back into the plane.
func ToWorld(x, y, w, h, zoom float64) vector.Vec {
	inv, ok := vector.Viewport(w, h, zoom).Invert()
	if !ok {
		return vector.Zero
	}
	return inv.Apply(vector.V(x, y))
}

// PickHandle returns the visible free vector whose tip is closest to p
// within tol world units. A wins ties because it is drawn on top.
func PickHandle(f scene.Frame, vis state.Visibility, p vector.Vec, tol float64) (state.Key, bool) {
	type cand struct {
		key  state.Key
		show bool
		tip  vector.Vec
	}
	cands := []cand{
		{state.KeyA, vis.A, f.Vectors.A},
		{state.KeyB, vis.B, f.Vectors.B},
		{state.KeyC, vis.C, f.Vectors.C},
	}
	var best state.Key
	bestD := math.Inf(1)
	for _, c := range cands {
		if !c.show || !c.tip.IsFinite() {
			continue
		}
		d := vector.Norm2(c.tip.Sub(p))
		if d <= tol && d < bestD {
			best, bestD = c.key, d
		}
	}
	return best, bestD <= tol
}

// SnapFor returns the snap options for dragging vector k at the given zoom:
// the grid plus the lines parallel and orthogonal to the vector it is
// multiplied with, where the wedge or the dot vanishes.
func SnapFor(k state.Key, vs state.VectorState, zoom float64) vector.SnapOptions {
	partner := vs.A
	if k == state.KeyA {
		partner = vs.B
	}
	return vector.SnapOptions{
		Threshold: SnapDistance / zoom,
		Grid:      SnapGrid,
		Lines: []vector.Anchor{
			{Dir: partner, Weight: 2, Kind: "parallel"},
			{Dir: partner.Rotate(), Weight: 2, Kind: "orthogonal"},
		},
	}
}

// gestureTracker turns a stream of slider or pointer moves into drag
// gestures on the coordinator: the first move of a run begins a gesture and
// the end event closes it, so one run is one undo step.
type gestureTracker struct {
	v      *visualizer.Visualizer
	active bool
	key    state.Key
}

func (g *gestureTracker) ensure(k state.Key) error {
	if g.active && g.key == k && g.v.Phase() == visualizer.PhaseDragging {
		return nil
	}
	if err := g.v.BeginDrag(k); err != nil {
		return err
	}
	g.active, g.key = true, k
	return nil
}

func (g *gestureTracker) moveAxis(k state.Key, axis state.Axis, value float64) error {
	if err := g.ensure(k); err != nil {
		return err
	}
	return g.v.DragTo(k, axis, value)
}

func (g *gestureTracker) movePoint(k state.Key, p vector.Vec) error {
	if err := g.ensure(k); err != nil {
		return err
	}
	return g.v.DragPoint(k, p)
}

func (g *gestureTracker) end() {
	if !g.active {
		return
	}
	g.v.EndDrag()
	g.active = false
}

var visLabels = map[state.VisKey]string{
	state.VisA:       "A",
	state.VisB:       "B",
	state.VisC:       "C",
	state.VisBrot:    "B⊥ (B rotated)",
	state.VisDot:     "A·B (dot)",
	state.VisWedge:   "A∧B (wedge)",
	state.VisProdABC: "(AB)C",
	state.VisProdCAB: "(CA)B",
}

// VisLabel is the checkbox caption for a visibility key.
func VisLabel(k state.VisKey) string {
	if s, ok := visLabels[k]; ok {
		return s
	}
	return string(k)
}

// VisKeyForRune maps the digit shortcuts 1..8 onto state.VisKeys.
func VisKeyForRune(r rune) (state.VisKey, bool) {
	i := int(r - '1')
	if i < 0 || i >= len(state.VisKeys) {
		return "", false
	}
	return state.VisKeys[i], true
}
