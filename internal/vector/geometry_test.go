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

import (
	"math"
	"math/rand"
	"testing"
)

// samples returns a deterministic mix of hand-picked and pseudo-random vectors.
func samples() []Vec {
	out := []Vec{{0, 0}, {1, 0}, {0, 1}, {2, 1}, {-1, 1}, {3, 4}, {-2.5, 0.75}, {1e-4, -7}}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 40; i++ {
		out = append(out, Vec{X: rng.Float64()*20 - 10, Y: rng.Float64()*20 - 10})
	}
	return out
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b))) }

func TestDotAndWedgeSymmetry(t *testing.T) {
	for _, a := range samples() {
		for _, b := range samples() {
			if !near(a.Wedge(b), -b.Wedge(a)) {
				t.Fatalf("wedge not antisymmetric for %v %v", a, b)
			}
			if !near(a.Dot(b), b.Dot(a)) {
				t.Fatalf("dot not symmetric for %v %v", a, b)
			}
			if !near(a.Dot(b), a.Wedge(b.Rotate())) {
				t.Fatalf("dot(a,b)=%g but wedge(a,rot b)=%g for %v %v", a.Dot(b), a.Wedge(b.Rotate()), a, b)
			}
		}
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	for _, v := range samples() {
		if got := v.Rotate().Rotate(); got != v.Neg() {
			t.Fatalf("rotate twice of %v = %v, want %v", v, got, v.Neg())
		}
		if !near(Norm2(v.Rotate()), Norm2(v)) {
			t.Fatalf("rotation changed length of %v", v)
		}
	}
	if got := V(1, 0).Rotate(); got != V(0, 1) {
		t.Fatalf("x axis should rotate onto y axis, got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	for _, v := range samples() {
		if v.IsZero() {
			continue
		}
		if n := Norm2(v.Normalize()); math.Abs(n-1) > DefaultEpsilon {
			t.Fatalf("normalize(%v) has length %g", v, n)
		}
	}
	n := V(3, 4).Normalize()
	if n != V(0.6, 0.8) {
		t.Fatalf("normalize(3,4) = %v", n)
	}
	if Norm2(n) != 1.0 {
		t.Fatalf("norm of (0.6,0.8) = %v, want exactly 1", Norm2(n))
	}
}

func TestNormalizeExtremeMagnitudes(t *testing.T) {
	for _, v := range []Vec{
		V(1e-200, 0),
		V(1e200, 0),
		V(0, -1e-170),
		V(3e-160, 4e-160),
		V(5e-324, 5e-324),
		V(math.MaxFloat64, -math.MaxFloat64),
	} {
		n := v.Normalize()
		if !n.IsFinite() {
			t.Fatalf("normalize(%v) = %v, not finite", v, n)
		}
		if l := Norm2(n); math.Abs(l-1) > 1e-12 {
			t.Fatalf("normalize(%v) = %v has length %g", v, n, l)
		}
	}
	if got := V(1e-200, 0).Normalize(); got != V(1, 0) {
		t.Fatalf("normalize tiny x axis = %v", got)
	}
	if got := V(3e-160, 4e-160).Normalize(); !got.Equals(V(0.6, 0.8), 1e-12) {
		t.Fatalf("normalize tiny (3,4) = %v", got)
	}
}

func TestNorm2ExtremeMagnitudes(t *testing.T) {
	for _, c := range []struct {
		v    Vec
		want float64
	}{
		{V(1e-200, 0), 1e-200},
		{V(0, 1e200), 1e200},
		{V(3e-200, 4e-200), 5e-200},
		{V(3e200, -4e200), 5e200},
	} {
		got := Norm2(c.v)
		if math.Abs(got-c.want) > 1e-12*c.want {
			t.Fatalf("Norm2(%v) = %g, want %g", c.v, got, c.want)
		}
	}
}

func TestNormalizeZeroIsNotFinite(t *testing.T) {
	z := Zero.Normalize()
	if z.IsFinite() {
		t.Fatalf("expected non-finite result, got %v", z)
	}
}

func TestEqualsEpsilon(t *testing.T) {
	a := V(1, 2)
	if !a.Equals(V(1.0005, 1.9995), DefaultEpsilon) {
		t.Fatalf("expected equal within epsilon")
	}
	if a.Equals(V(1.002, 2), DefaultEpsilon) {
		t.Fatalf("expected unequal beyond epsilon")
	}
}

func TestConcreteDotWedge(t *testing.T) {
	a, b := V(2, 1), V(-1, 1)
	if w := a.Wedge(b); w != 3 {
		t.Fatalf("wedge = %g, want 3", w)
	}
	if d := a.Dot(b); d != -1 {
		t.Fatalf("dot = %g, want -1", d)
	}
}

func TestArithmetic(t *testing.T) {
	a, b := V(1, 2), V(3, -1)
	if a.Add(b) != V(4, 1) || a.Sub(b) != V(-2, 3) || a.Scale(2) != V(2, 4) || a.Neg() != V(-1, -2) {
		t.Fatalf("arithmetic mismatch")
	}
	if a.Lerp(b, 0.5) != V(2, 0.5) {
		t.Fatalf("lerp mismatch: %v", a.Lerp(b, 0.5))
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(V(1, 1))
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
	inv, ok := m.Invert()
	if !ok {
		t.Fatalf("expected invertible")
	}
	if back := inv.Apply(p); !back.Equals(V(1, 1), 1e-12) {
		t.Fatalf("inverse round trip = %v", back)
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Fatalf("singular transform reported invertible")
	}
}

func TestViewportFlipsY(t *testing.T) {
	vp := Viewport(200, 100, 10)
	if c := vp.Apply(Zero); c != V(100, 50) {
		t.Fatalf("origin should map to canvas center, got %v", c)
	}
	if p := vp.Apply(V(1, 1)); p != V(110, 40) {
		t.Fatalf("unexpected mapping: %v", p)
	}
}

func TestFloatRound(t *testing.T) {
	if FloatRound(1.23456, 2) != 1.23 || FloatRound(-0.005, 2) != -0.01 {
		t.Fatalf("rounding mismatch")
	}
}
