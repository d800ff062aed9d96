/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package scene derives every displayed quantity from the three free vectors.
// Compute is a pure function; the only side effect in this package is handing
// frames and visibility flags to a Display.
package scene

import (
	"math"

	"gavisualizer/internal/state"
	"gavisualizer/internal/vector"
)

// Segment is a straight line between two points.
type Segment struct {
	From, To vector.Vec
}

// Arrow is a vector drawn from an origin. Handle is the draggable endpoint and
// is only set for the free vectors.
type Arrow struct {
	Shaft  Segment
	Head   [3]vector.Vec // tip, left barb, right barb
	Handle *vector.Vec
}

// Parallelogram is spanned by two edges from the origin.
// Vertices run origin, u, u+v, v; Area is the signed area u∧v.
type Parallelogram struct {
	Vertices [4]vector.Vec
	Area     float64
}

// Norms holds the magnitude of every vector quantity under the active metric.
type Norms struct {
	A, B, C          float64
	ProdABC, ProdCAB float64
}

// Arrows groups the drawable vectors by name.
type Arrows struct {
	A, B, C, Brot    Arrow
	ProdABC, ProdCAB Arrow
}

// Frame is everything a display needs to draw one state.
type Frame struct {
	Vectors state.VectorState
	Brot    vector.Vec

	// WedgeArea is spanned by A and B; its area is A∧B.
	WedgeArea Parallelogram
	// DotArea is spanned by A and B rotated; its area A∧Brot equals A·B.
	DotArea Parallelogram
	// Dashed completes both parallelograms: A→A+B, B→A+B, A→A+Brot, Brot→A+Brot.
	Dashed [4]Segment

	ProdAB  vector.GeometricProduct
	ProdCA  vector.GeometricProduct
	ProdABC vector.Vec
	ProdCAB vector.Vec

	Norm   vector.NormKind
	Norms  Norms
	Arrows Arrows
}

// HeadLength is the arrow head size in world units for long vectors.
const HeadLength = 0.18

// Compute derives a Frame from vs using the given metric for magnitudes.
func Compute(vs state.VectorState, norm vector.NormKind) Frame {
	a, b, c := vs.A, vs.B, vs.C
	brot := b.Rotate()
	f := Frame{Vectors: vs, Brot: brot, Norm: norm}

	f.WedgeArea = NewParallelogram(a, b)
	f.DotArea = NewParallelogram(a, brot)
	f.Dashed = [4]Segment{
		{From: a, To: a.Add(b)},
		{From: b, To: a.Add(b)},
		{From: a, To: a.Add(brot)},
		{From: brot, To: a.Add(brot)},
	}

	f.ProdAB = vector.Prod(a, b)
	f.ProdCA = vector.Prod(c, a)
	f.ProdABC = f.ProdAB.Apply(c)
	f.ProdCAB = f.ProdCA.Apply(b)

	n := norm.Func()
	f.Norms = Norms{A: n(a), B: n(b), C: n(c), ProdABC: n(f.ProdABC), ProdCAB: n(f.ProdCAB)}

	f.Arrows = Arrows{
		A:       NewArrow(vector.Zero, a, true),
		B:       NewArrow(vector.Zero, b, true),
		C:       NewArrow(vector.Zero, c, true),
		Brot:    NewArrow(vector.Zero, brot, false),
		ProdABC: NewArrow(vector.Zero, f.ProdABC, false),
		ProdCAB: NewArrow(vector.Zero, f.ProdCAB, false),
	}
	return f
}

// NewParallelogram returns the parallelogram spanned by u and v.
func NewParallelogram(u, v vector.Vec) Parallelogram {
	return Parallelogram{
		Vertices: [4]vector.Vec{vector.Zero, u, u.Add(v), v},
		Area:     u.Wedge(v),
	}
}

// NewArrow builds an arrow from one point to another. Short arrows get
// proportionally smaller heads; zero-length arrows collapse onto the tip.
func NewArrow(from, to vector.Vec, handle bool) Arrow {
	ar := Arrow{Shaft: Segment{From: from, To: to}}
	d := to.Sub(from)
	l := vector.Norm2(d)
	ar.Head = [3]vector.Vec{to, to, to}
	if l > 0 && !math.IsInf(l, 0) && !math.IsNaN(l) {
		h := math.Min(HeadLength, l*0.3)
		u := d.Scale(1 / l)
		back := to.Sub(u.Scale(h))
		side := u.Rotate().Scale(h * 0.5)
		ar.Head = [3]vector.Vec{to, back.Add(side), back.Sub(side)}
	}
	if handle {
		tip := to
		ar.Handle = &tip
	}
	return ar
}

// Extent returns the largest absolute coordinate among the visible items,
// never less than 1, for fitting a viewport.
func (f Frame) Extent(vis state.Visibility) float64 {
	m := 1.0
	grow := func(vs ...vector.Vec) {
		for _, v := range vs {
			if !v.IsFinite() {
				continue
			}
			m = math.Max(m, math.Max(math.Abs(v.X), math.Abs(v.Y)))
		}
	}
	if vis.A {
		grow(f.Vectors.A)
	}
	if vis.B {
		grow(f.Vectors.B)
	}
	if vis.C {
		grow(f.Vectors.C)
	}
	if vis.Brot {
		grow(f.Brot)
	}
	if vis.Wedge {
		grow(f.WedgeArea.Vertices[:]...)
	}
	if vis.Dot {
		grow(f.DotArea.Vertices[:]...)
	}
	if vis.ProdABC {
		grow(f.ProdABC)
	}
	if vis.ProdCAB {
		grow(f.ProdCAB)
	}
	return m
}

// Finite reports whether every derived value is a real number. A zero-length
// normalization upstream shows up here as false.
func (f Frame) Finite() bool {
	return f.Vectors.A.IsFinite() && f.Vectors.B.IsFinite() && f.Vectors.C.IsFinite() &&
		f.ProdAB.IsFinite() && f.ProdCA.IsFinite() && f.ProdABC.IsFinite() && f.ProdCAB.IsFinite()
}
