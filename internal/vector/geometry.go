/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package vector implements the 2D vector algebra behind the visualizer:
// dot and wedge products, the exact quarter-turn rotation, the geometric
// product of two vectors, and a small affine transform for mapping the
// Euclidean plane onto a canvas.
package vector

import "math"

// DefaultEpsilon is the component tolerance used when comparing vectors.
const DefaultEpsilon = 1e-3

// Vec is an immutable 2D vector. Every operation returns a new value.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// Zero is the origin.
var Zero = Vec{}

func (a Vec) Add(b Vec) Vec { return Vec{X: a.X + b.X, Y: a.Y + b.Y} }
func (a Vec) Sub(b Vec) Vec { return Vec{X: a.X - b.X, Y: a.Y - b.Y} }
func (a Vec) Neg() Vec      { return Vec{X: -a.X, Y: -a.Y} }

func (a Vec) Scale(s float64) Vec { return Vec{X: a.X * s, Y: a.Y * s} }

// Dot returns the scalar product a·b.
// The explicit conversions keep the compiler from fusing into an FMA, so
// results are identical on every architecture.
func (a Vec) Dot(b Vec) float64 { return float64(a.X*b.X) + float64(a.Y*b.Y) }

// Wedge returns the bivector coefficient of a∧b, the signed area of the
// parallelogram spanned by a and b. Wedge(a, b) == -Wedge(b, a).
func (a Vec) Wedge(b Vec) float64 { return float64(a.X*b.Y) - float64(a.Y*b.X) }

// Rotate returns a turned a quarter turn counter-clockwise.
func (a Vec) Rotate() Vec { return Vec{X: -a.Y, Y: a.X} }

// Normalize scales a to unit Euclidean length.
// The zero vector has no direction: the result has NaN components and callers
// that cannot accept that must check IsZero first.
func (a Vec) Normalize() Vec {
	// Rescale far-from-unit vectors so Norm2 neither underflows nor overflows.
	if m := NormInf(a); m > 0 && (m < 0x1p-500 || m > 0x1p500) {
		a = Vec{X: a.X / m, Y: a.Y / m}
	}
	n := Norm2(a)
	return Vec{X: a.X / n, Y: a.Y / n}
}

// IsZero reports whether both components are exactly zero.
func (a Vec) IsZero() bool { return a.X == 0 && a.Y == 0 }

// IsFinite reports whether neither component is NaN or infinite.
func (a Vec) IsFinite() bool { return isFinite(a.X) && isFinite(a.Y) }

// Equals compares component-wise within eps.
func (a Vec) Equals(b Vec, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

// Lerp interpolates between a and b.
func (a Vec) Lerp(b Vec, t float64) Vec {
	return Vec{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
// stored as [a b c d e f].
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Vec) Vec {
	return Vec{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Invert returns the inverse transform and false if m is singular.
func (m Affine2D) Invert() (Affine2D, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Affine2D{}, false
	}
	inv := 1 / det
	a := m.D * inv
	b := -m.B * inv
	c := -m.C * inv
	d := m.A * inv
	return Affine2D{
		A: a, B: b, C: c, D: d,
		E: -(a*m.E + c*m.F),
		F: -(b*m.E + d*m.F),
	}, true
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }

// Viewport maps world coordinates (y up, origin centered) onto a w×h pixel
// canvas (y down) with ppu pixels per world unit.
func Viewport(w, h, ppu float64) Affine2D {
	return Translate(w/2, h/2).Mul(Scale(ppu, -ppu))
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
