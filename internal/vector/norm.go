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
	"fmt"
	"math"
	"strings"
)

// NormFunc maps a vector to a non-negative scalar.
type NormFunc func(Vec) float64

// Squares outside this range lose precision or overflow.
const (
	minSafeSquare = 0x1p-1000
	maxSafeSquare = 0x1p1000
)

// Norm2 is the Euclidean length. Components whose squares would underflow or
// overflow go through math.Hypot.
func Norm2(v Vec) float64 {
	if d := v.Dot(v); d >= minSafeSquare && d <= maxSafeSquare {
		return math.Sqrt(d)
	}
	return math.Hypot(v.X, v.Y)
}

// Norm1 is the Manhattan length |x|+|y|.
func Norm1(v Vec) float64 { return math.Abs(v.X) + math.Abs(v.Y) }

// Norm0 counts nonzero components. Not a true norm.
func Norm0(v Vec) float64 {
	n := 0.0
	if v.X != 0 {
		n++
	}
	if v.Y != 0 {
		n++
	}
	return n
}

// NormInf is the Chebyshev length max(|x|,|y|).
func NormInf(v Vec) float64 { return math.Max(math.Abs(v.X), math.Abs(v.Y)) }

// NormKind names one of the four metrics.
type NormKind string

const (
	NormL2   NormKind = "l2"
	NormL1   NormKind = "l1"
	NormL0   NormKind = "l0"
	NormLInf NormKind = "linf"
)

// NormKinds lists the supported metrics in display order.
var NormKinds = []NormKind{NormL2, NormL1, NormL0, NormLInf}

// ParseNormKind accepts the canonical names plus a few common aliases.
func ParseNormKind(s string) (NormKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "l2", "2", "euclidean":
		return NormL2, nil
	case "l1", "1", "manhattan", "taxicab":
		return NormL1, nil
	case "l0", "0", "nonzero":
		return NormL0, nil
	case "linf", "inf", "max", "chebyshev":
		return NormLInf, nil
	}
	return "", fmt.Errorf("unknown norm %q", s)
}

// Func returns the metric for k, defaulting to Euclidean.
func (k NormKind) Func() NormFunc {
	switch k {
	case NormL1:
		return Norm1
	case NormL0:
		return Norm0
	case NormLInf:
		return NormInf
	default:
		return Norm2
	}
}

// LaTeX returns the subscripted norm bars for k, e.g. \lVert v \rVert_2.
func (k NormKind) LaTeX(arg string) string {
	sub := "2"
	switch k {
	case NormL1:
		sub = "1"
	case NormL0:
		sub = "0"
	case NormLInf:
		sub = `\infty`
	}
	return `\lVert ` + arg + ` \rVert_{` + sub + `}`
}
