/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package state

import (
	"errors"
	"fmt"
	"sort"

	"gavisualizer/internal/vector"
)

// ErrUnknownExample is returned by Example for names outside the catalog.
var ErrUnknownExample = errors.New("unknown example")

// ExampleState is one entry of the fixed example catalog.
// C is optional: when nil, loading the example keeps the live C.
type ExampleState struct {
	Name       string
	Title      string
	A, B       vector.Vec
	C          *vector.Vec
	Visibility Visibility
}

// Apply returns the state produced by loading e on top of live.
func (e ExampleState) Apply(live VisualizerState) VisualizerState {
	out := VisualizerState{
		Vector:     VectorState{A: e.A, B: e.B, C: live.Vector.C},
		Visibility: e.Visibility,
	}
	if e.C != nil {
		out.Vector.C = *e.C
	}
	return out
}

var (
	dotVisibility   = Visibility{A: true, B: true, Brot: true, Dot: true}
	wedgeVisibility = Visibility{A: true, B: true, Wedge: true}
	allVisible      = Visibility{A: true, B: true, C: true, Brot: true, Dot: true, Wedge: true, ProdABC: true, ProdCAB: true}
)

func vp(x, y float64) *vector.Vec { v := vector.V(x, y); return &v }

// examples pairs every dot product case with the matching wedge case so the
// two products can be compared on identical inputs. "parallel" means the
// operands point in opposite directions, "codirectional" that they agree.
var examples = []ExampleState{
	{Name: "dot-parallel", Title: "Parallel vectors", A: vector.V(2, 1), B: vector.V(-1.5, -0.75), Visibility: dotVisibility},
	{Name: "dot-orthogonal", Title: "Orthogonal basis", A: vector.V(1, 0), B: vector.V(0, 1), Visibility: dotVisibility},
	{Name: "dot-codirectional", Title: "Codirectional vectors", A: vector.V(2, 1), B: vector.V(1, 0.5), Visibility: dotVisibility},
	{Name: "dot-self", Title: "Vector with itself", A: vector.V(1.5, 1), B: vector.V(1.5, 1), Visibility: dotVisibility},
	{Name: "dot-sign-switch", Title: "Sign switch past 90°", A: vector.V(1, 0), B: vector.V(-0.5, 1), Visibility: dotVisibility},
	{Name: "wedge-parallel", Title: "Parallel vectors", A: vector.V(2, 1), B: vector.V(-1.5, -0.75), Visibility: wedgeVisibility},
	{Name: "wedge-orthogonal", Title: "Orthogonal basis", A: vector.V(1, 0), B: vector.V(0, 1), Visibility: wedgeVisibility},
	{Name: "wedge-codirectional", Title: "Codirectional vectors", A: vector.V(2, 1), B: vector.V(1, 0.5), Visibility: wedgeVisibility},
	{Name: "wedge-self", Title: "Vector with itself", A: vector.V(1.5, 1), B: vector.V(1.5, 1), Visibility: wedgeVisibility},
	{Name: "wedge-sign-switch", Title: "Sign switch past 180°", A: vector.V(1, 0), B: vector.V(1, -0.5), Visibility: wedgeVisibility},
	{Name: "geometric-product", Title: "Geometric product", A: vector.V(2, 1), B: vector.V(1, 1.5), C: vp(1, -1), Visibility: allVisible},
}

// Example looks up a catalog entry by name.
func Example(name string) (ExampleState, error) {
	for _, e := range examples {
		if e.Name == name {
			return e, nil
		}
	}
	return ExampleState{}, fmt.Errorf("example %q: %w", name, ErrUnknownExample)
}

// ExampleNames returns the catalog names sorted alphabetically.
func ExampleNames() []string {
	out := make([]string, 0, len(examples))
	for _, e := range examples {
		out = append(out, e.Name)
	}
	sort.Strings(out)
	return out
}

// Examples returns a copy of the catalog in declaration order.
func Examples() []ExampleState {
	return append([]ExampleState(nil), examples...)
}
