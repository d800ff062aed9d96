/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"gavisualizer/internal/scene"
	"gavisualizer/internal/state"
	"gavisualizer/internal/theme"
	"gavisualizer/internal/version"
)

const (
	tableMargin = 24.0
	rowHeight   = 16.0
	keyColWidth = 56.0
)

// PDF writes a one-page worksheet: the diagram on top and a table of the
// visible readouts below it. Units are points; one pixel maps to one point.
//
// Built-in Helvetica keeps text vector without embedding, so labels go
// through plainText and the cp1252 translator.
func PDF(w io.Writer, f scene.Frame, vis state.Visibility, opt Options) error {
	opt, m := opt.resolve(f, vis)
	pal := opt.Palette
	rows := visibleReadouts(f, vis)

	pageW := float64(opt.Width)
	diagramH := float64(opt.Height)
	pageH := diagramH + 2*tableMargin + rowHeight*float64(len(rows)+1)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	title := opt.Title
	if title == "" {
		title = "Geometric product worksheet"
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("gavisualizer "+version.String(), true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	setFillColor(pdf, pal.Color(theme.Background))
	pdf.Rect(0, 0, pageW, pageH, "F")

	for _, s := range plan(f, vis, opt, m) {
		c := pal.Color(s.color)
		switch s.kind {
		case shapeFill:
			pts := make([]gofpdf.PointType, len(s.pts))
			for i, p := range s.pts {
				pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
			}
			setFillColor(pdf, c)
			pdf.SetAlpha(float64(s.alpha)/255, "Normal")
			pdf.Polygon(pts, "F")
			pdf.SetAlpha(1, "Normal")
		case shapeStroke:
			setDrawColor(pdf, c)
			pdf.SetLineWidth(s.width)
			if s.dashed {
				pdf.SetDashPattern([]float64{dashOn, dashOff}, 0)
			} else {
				pdf.SetDashPattern([]float64{}, 0)
			}
			pdf.Line(s.pts[0].X, s.pts[0].Y, s.pts[1].X, s.pts[1].Y)
		case shapeLabel:
			pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
			pdf.SetFont("Helvetica", "", 10)
			pdf.Text(s.pts[0].X, s.pts[0].Y, tr(plainText(s.text)))
		}
	}
	pdf.SetDashPattern([]float64{}, 0)

	// Readout table
	text := pal.Color(theme.Text)
	setDrawColor(pdf, pal.Color(theme.Axis))
	pdf.SetLineWidth(0.5)
	pdf.SetTextColor(int(text.R), int(text.G), int(text.B))
	pdf.SetXY(tableMargin, diagramH+tableMargin)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(keyColWidth, rowHeight, "Quantity", "1", 0, "L", false, 0, "")
	pdf.CellFormat(pageW-2*tableMargin-keyColWidth, rowHeight, "Value", "1", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.SetX(tableMargin)
		pdf.CellFormat(keyColWidth, rowHeight, string(r.Key), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pageW-2*tableMargin-keyColWidth, rowHeight, tr(plainText(r.Text)), "1", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
