/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// GeometricProduct is the geometric product ab of two vectors in the plane:
// a scalar part (a·b) plus a bivector part (a∧b) along the unit bivector I = e1e2.
type GeometricProduct struct {
	Dot   float64 `json:"dot"`
	Wedge float64 `json:"wedge"`
}

// Prod returns the geometric product ab.
func Prod(a, b Vec) GeometricProduct {
	return GeometricProduct{Dot: a.Dot(b), Wedge: a.Wedge(b)}
}

// Apply multiplies v on the left by g, so Prod(a, b).Apply(c) is the vector abc.
// With I = e1e2 we have Iv = -v.Rotate(), hence v·dot - rotate(v)·wedge.
func (g GeometricProduct) Apply(v Vec) Vec {
	return v.Scale(g.Dot).Sub(v.Rotate().Scale(g.Wedge))
}

// Compose returns gh, so Compose(g, h).Apply(v) == g.Apply(h.Apply(v)).
func Compose(g, h GeometricProduct) GeometricProduct {
	return GeometricProduct{
		Dot:   g.Dot*h.Dot - g.Wedge*h.Wedge,
		Wedge: g.Dot*h.Wedge + g.Wedge*h.Dot,
	}
}

// Reverse returns ba for g = ab; the bivector part flips sign.
func (g GeometricProduct) Reverse() GeometricProduct {
	return GeometricProduct{Dot: g.Dot, Wedge: -g.Wedge}
}

// Magnitude is the scale factor Apply introduces, |a||b| for g = ab.
func (g GeometricProduct) Magnitude() float64 { return math.Hypot(g.Dot, g.Wedge) }

// Angle is the signed angle from a to b for g = ab, in radians.
// Apply turns its argument clockwise by this angle.
func (g GeometricProduct) Angle() float64 { return math.Atan2(g.Wedge, g.Dot) }

// IsFinite reports whether both parts are finite.
func (g GeometricProduct) IsFinite() bool { return isFinite(g.Dot) && isFinite(g.Wedge) }
