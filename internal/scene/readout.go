/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package scene

import (
	"math"
	"strconv"
	"strings"

	"gavisualizer/internal/state"
	"gavisualizer/internal/vector"
)

// Undefined is printed in place of non-finite numbers.
const Undefined = "undefined"

// Readout is the textual form of one derived quantity.
type Readout struct {
	Key   state.VisKey
	Text  string
	LaTeX string
}

// FormatNumber prints f with two decimals; NaN and ±Inf print as Undefined.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Undefined
	}
	s := strconv.FormatFloat(f, 'f', 2, 64)
	if s == "-0.00" {
		s = "0.00"
	}
	return s
}

// FormatVec prints v as (x, y).
func FormatVec(v vector.Vec) string {
	return "(" + FormatNumber(v.X) + ", " + FormatNumber(v.Y) + ")"
}

func latexVec(v vector.Vec) string {
	return `\begin{pmatrix}` + FormatNumber(v.X) + `\\` + FormatNumber(v.Y) + `\end{pmatrix}`
}

// Readouts returns one readout per visibility key, in state.VisKeys order.
func (f Frame) Readouts() []Readout {
	vs := f.Vectors
	n := f.Norm
	out := make([]Readout, 0, len(state.VisKeys))
	for _, k := range state.VisKeys {
		var r Readout
		switch k {
		case state.VisA:
			r = vectorReadout("A", "a", vs.A, f.Norms.A, n)
		case state.VisB:
			r = vectorReadout("B", "b", vs.B, f.Norms.B, n)
		case state.VisC:
			r = vectorReadout("C", "c", vs.C, f.Norms.C, n)
		case state.VisBrot:
			r = Readout{
				Text:  "B⊥ = " + FormatVec(f.Brot),
				LaTeX: `\mathbf{b}^{\perp} = ` + latexVec(f.Brot),
			}
		case state.VisDot:
			d := FormatNumber(f.ProdAB.Dot)
			r = Readout{
				Text:  "A·B = A∧B⊥ = " + d,
				LaTeX: `\mathbf{a} \cdot \mathbf{b} = \mathbf{a} \wedge \mathbf{b}^{\perp} = ` + d,
			}
		case state.VisWedge:
			w := FormatNumber(f.ProdAB.Wedge)
			r = Readout{
				Text:  "A∧B = " + w + " I",
				LaTeX: `\mathbf{a} \wedge \mathbf{b} = ` + w + `\,I`,
			}
		case state.VisProdABC:
			r = productReadout("AB", "C", `\mathbf{a}\mathbf{b}\mathbf{c}`, f.ProdAB, f.ProdABC, f.Norms.ProdABC, n)
		case state.VisProdCAB:
			r = productReadout("CA", "B", `\mathbf{c}\mathbf{a}\mathbf{b}`, f.ProdCA, f.ProdCAB, f.Norms.ProdCAB, n)
		}
		r.Key = k
		out = append(out, r)
	}
	return out
}

// Readout returns the readout for a single key.
func (f Frame) Readout(k state.VisKey) (Readout, bool) {
	for _, r := range f.Readouts() {
		if r.Key == k {
			return r, true
		}
	}
	return Readout{}, false
}

func vectorReadout(name, sym string, v vector.Vec, norm float64, kind vector.NormKind) Readout {
	bold := `\mathbf{` + sym + `}`
	return Readout{
		Text:  name + " = " + FormatVec(v) + "  |" + name + "| = " + FormatNumber(norm),
		LaTeX: bold + ` = ` + latexVec(v) + `,\quad ` + kind.LaTeX(bold) + ` = ` + FormatNumber(norm),
	}
}

func productReadout(pair, operand, sym string, g vector.GeometricProduct, v vector.Vec, norm float64, kind vector.NormKind) Readout {
	text := "(" + pair + ")" + operand + " = " + FormatNumber(g.Dot) + "·" + operand + " − " +
		FormatNumber(g.Wedge) + "·" + operand + "⊥ = " + FormatVec(v) + "  |·| = " + FormatNumber(norm)
	latex := sym + ` = ` + FormatNumber(g.Dot) + `\,\mathbf{` + strings.ToLower(operand) + `} - ` + FormatNumber(g.Wedge) +
		`\,\mathbf{` + strings.ToLower(operand) + `}^{\perp} = ` + latexVec(v) + `,\quad ` + kind.LaTeX(sym) + ` = ` + FormatNumber(norm)
	return Readout{Text: text, LaTeX: latex}
}
