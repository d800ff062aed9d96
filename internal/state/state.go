/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package state holds the undoable snapshot of the visualizer: the three free
// vectors A, B and C plus the visibility flag of every derived quantity.
// All values are plain structs; copies never share memory, so a clone can be
// mutated freely without affecting the original.
package state

import (
	"errors"
	"fmt"
	"strings"

	"gavisualizer/internal/vector"
)

// ErrUnknownKey is returned when a vector, axis or visibility key is not part
// of the fixed key sets.
var ErrUnknownKey = errors.New("unknown key")

// Key selects one of the three user-controlled vectors.
type Key string

const (
	KeyA Key = "A"
	KeyB Key = "B"
	KeyC Key = "C"
)

// Keys lists the vector keys in display order.
var Keys = []Key{KeyA, KeyB, KeyC}

// ParseKey accepts upper or lower case names.
func ParseKey(s string) (Key, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return KeyA, nil
	case "B":
		return KeyB, nil
	case "C":
		return KeyC, nil
	}
	return "", fmt.Errorf("vector %q: %w", s, ErrUnknownKey)
}

// Axis selects a vector component.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// ParseAxis accepts "x" or "y" in any case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	}
	return "", fmt.Errorf("axis %q: %w", s, ErrUnknownKey)
}

// VectorState is the set of independent vectors the user manipulates.
type VectorState struct {
	A vector.Vec `json:"A"`
	B vector.Vec `json:"B"`
	C vector.Vec `json:"C"`
}

// Clone returns a copy of s.
func (s VectorState) Clone() VectorState { return s }

// Equal compares all three vectors within vector.DefaultEpsilon so that float
// noise from dragging does not register as a change.
func (s VectorState) Equal(o VectorState) bool {
	eps := vector.DefaultEpsilon
	return s.A.Equals(o.A, eps) && s.B.Equals(o.B, eps) && s.C.Equals(o.C, eps)
}

// Get returns the vector stored under k.
func (s VectorState) Get(k Key) (vector.Vec, error) {
	switch k {
	case KeyA:
		return s.A, nil
	case KeyB:
		return s.B, nil
	case KeyC:
		return s.C, nil
	}
	return vector.Vec{}, fmt.Errorf("vector %q: %w", k, ErrUnknownKey)
}

// Set returns a copy of s with the vector under k replaced.
func (s VectorState) Set(k Key, v vector.Vec) (VectorState, error) {
	switch k {
	case KeyA:
		s.A = v
	case KeyB:
		s.B = v
	case KeyC:
		s.C = v
	default:
		return s, fmt.Errorf("vector %q: %w", k, ErrUnknownKey)
	}
	return s, nil
}

// With returns a copy of s with one component of one vector replaced.
func (s VectorState) With(k Key, axis Axis, value float64) (VectorState, error) {
	v, err := s.Get(k)
	if err != nil {
		return s, err
	}
	switch axis {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	default:
		return s, fmt.Errorf("axis %q: %w", axis, ErrUnknownKey)
	}
	return s.Set(k, v)
}

// VisKey names a derived quantity whose display can be toggled.
type VisKey string

const (
	VisA       VisKey = "a"
	VisB       VisKey = "b"
	VisC       VisKey = "c"
	VisBrot    VisKey = "brot"
	VisDot     VisKey = "dot"
	VisWedge   VisKey = "wedge"
	VisProdABC VisKey = "prodABC"
	VisProdCAB VisKey = "prodCAB"
)

// VisKeys is the closed set of visibility keys in display order.
var VisKeys = []VisKey{VisA, VisB, VisC, VisBrot, VisDot, VisWedge, VisProdABC, VisProdCAB}

// ParseVisKey matches case-insensitively against VisKeys.
func ParseVisKey(s string) (VisKey, error) {
	s = strings.TrimSpace(s)
	for _, k := range VisKeys {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("visibility %q: %w", s, ErrUnknownKey)
}

// Visibility holds one flag per derived quantity.
type Visibility struct {
	A       bool `json:"a"`
	B       bool `json:"b"`
	C       bool `json:"c"`
	Brot    bool `json:"brot"`
	Dot     bool `json:"dot"`
	Wedge   bool `json:"wedge"`
	ProdABC bool `json:"prodABC"`
	ProdCAB bool `json:"prodCAB"`
}

func (v *Visibility) field(k VisKey) *bool {
	switch k {
	case VisA:
		return &v.A
	case VisB:
		return &v.B
	case VisC:
		return &v.C
	case VisBrot:
		return &v.Brot
	case VisDot:
		return &v.Dot
	case VisWedge:
		return &v.Wedge
	case VisProdABC:
		return &v.ProdABC
	case VisProdCAB:
		return &v.ProdCAB
	}
	return nil
}

// Get reports the flag for k; unknown keys are never visible.
func (v Visibility) Get(k VisKey) bool {
	if f := v.field(k); f != nil {
		return *f
	}
	return false
}

// With returns a copy with the flag for k set to on.
func (v Visibility) With(k VisKey, on bool) (Visibility, error) {
	f := v.field(k)
	if f == nil {
		return v, fmt.Errorf("visibility %q: %w", k, ErrUnknownKey)
	}
	*f = on
	return v, nil
}

// Toggle returns a copy with the flag for k inverted.
func (v Visibility) Toggle(k VisKey) (Visibility, error) {
	return v.With(k, !v.Get(k))
}

// Visible returns the keys that are switched on, in VisKeys order.
func (v Visibility) Visible() []VisKey {
	var out []VisKey
	for _, k := range VisKeys {
		if v.Get(k) {
			out = append(out, k)
		}
	}
	return out
}

// VisualizerState is the complete undoable unit.
type VisualizerState struct {
	Vector     VectorState `json:"vector"`
	Visibility Visibility  `json:"visibility"`
}

// Clone returns a deep copy of s.
func (s VisualizerState) Clone() VisualizerState { return s }

// Equal compares vectors within epsilon and visibility exactly.
func (s VisualizerState) Equal(o VisualizerState) bool {
	return s.Vector.Equal(o.Vector) && s.Visibility == o.Visibility
}

// Default returns the startup state.
func Default() VisualizerState {
	return VisualizerState{
		Vector: VectorState{
			A: vector.V(2, 1),
			B: vector.V(-1, 1),
			C: vector.V(0.5, 1.5),
		},
		Visibility: Visibility{A: true, B: true, C: true, Wedge: true},
	}
}
