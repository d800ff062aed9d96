/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders a computed scene to PNG, SVG and PDF.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"

	"gavisualizer/internal/scene"
	"gavisualizer/internal/state"
	"gavisualizer/internal/theme"
	"gavisualizer/internal/vector"
)

// ErrUnsupportedFormat is returned by ToFile for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// DefaultSize is the edge length used when Options leaves Width or Height unset.
const DefaultSize = 800

// Options controls every exporter. Zero values select defaults.
//
//nolint:revive // clarity is preferred
type Options struct {
	Width         int
	Height        int
	PixelsPerUnit float64 // 0 fits the visible scene
	Palette       theme.Palette
	NoGrid        bool
	NoLabels      bool
	Readouts      bool // list the visible readouts in the diagram (PDF always adds a table)
	Title         string
	// Face renders PNG labels; nil uses the built-in 7x13 bitmap font with
	// math symbols spelled in ASCII.
	Face font.Face
	// Guides are snap guides in world units, drawn dashed above the areas.
	Guides []vector.GuideLine
}

func (o Options) resolve(f scene.Frame, vis state.Visibility) (Options, vector.Affine2D) {
	if o.Width <= 0 {
		o.Width = DefaultSize
	}
	if o.Height <= 0 {
		o.Height = DefaultSize
	}
	if o.PixelsPerUnit <= 0 {
		o.PixelsPerUnit = 0.9 * math.Min(float64(o.Width), float64(o.Height)) / 2 / f.Extent(vis)
	}
	if o.Palette.IsZero() {
		o.Palette = theme.Default()
	}
	return o, vector.Viewport(float64(o.Width), float64(o.Height), o.PixelsPerUnit)
}

type shapeKind int

const (
	shapeFill shapeKind = iota
	shapeStroke
	shapeLabel
)

// shape is one drawing primitive in pixel coordinates.
type shape struct {
	kind   shapeKind
	class  string // visibility key or "grid", "axis", "guide", "readout"
	color  string // theme name
	alpha  uint8
	width  float64
	dashed bool
	pts    []vector.Vec
	text   string
}

const (
	areaAlpha   = 0x55
	arrowWidth  = 2.5
	dashedWidth = 1.5
	labelOffset = 6
	lineHeight  = 16
)

// plan lays out the visible parts of f back to front.
func plan(f scene.Frame, vis state.Visibility, opt Options, m vector.Affine2D) []shape {
	var out []shape
	px := func(ws ...vector.Vec) []vector.Vec {
		ps := make([]vector.Vec, len(ws))
		for i, w := range ws {
			ps[i] = m.Apply(w)
		}
		return ps
	}
	add := func(s shape) {
		for _, p := range s.pts {
			if !p.IsFinite() {
				return
			}
		}
		out = append(out, s)
	}

	w, h := float64(opt.Width), float64(opt.Height)
	if !opt.NoGrid && opt.PixelsPerUnit >= 4 {
		hw, hh := w/2/opt.PixelsPerUnit, h/2/opt.PixelsPerUnit
		for i := math.Ceil(-hw); i <= hw; i++ {
			if i != 0 {
				add(shape{kind: shapeStroke, class: "grid", color: theme.Grid, alpha: 0xff, width: 1, pts: px(vector.V(i, -hh), vector.V(i, hh))})
			}
		}
		for j := math.Ceil(-hh); j <= hh; j++ {
			if j != 0 {
				add(shape{kind: shapeStroke, class: "grid", color: theme.Grid, alpha: 0xff, width: 1, pts: px(vector.V(-hw, j), vector.V(hw, j))})
			}
		}
	}
	add(shape{kind: shapeStroke, class: "axis", color: theme.Axis, alpha: 0xff, width: 1, pts: []vector.Vec{vector.V(0, h/2), vector.V(w, h/2)}})
	add(shape{kind: shapeStroke, class: "axis", color: theme.Axis, alpha: 0xff, width: 1, pts: []vector.Vec{vector.V(w/2, 0), vector.V(w/2, h)}})

	area := func(k state.VisKey, color, label string, p scene.Parallelogram, dashes []scene.Segment) {
		v := p.Vertices
		add(shape{kind: shapeFill, class: string(k), color: color, alpha: areaAlpha, pts: px(v[:]...)})
		for _, d := range dashes {
			add(shape{kind: shapeStroke, class: string(k), color: theme.Dashed, alpha: 0xff, width: dashedWidth, dashed: true, pts: px(d.From, d.To)})
		}
		if !opt.NoLabels {
			c := px(v[2].Scale(0.5))
			add(shape{kind: shapeLabel, class: string(k), color: color, alpha: 0xff, pts: c, text: label})
		}
	}
	if vis.Dot {
		area(state.VisDot, theme.DotArea, "A·B", f.DotArea, f.Dashed[2:])
	}
	if vis.Wedge {
		area(state.VisWedge, theme.WedgeArea, "A∧B", f.WedgeArea, f.Dashed[:2])
	}

	for _, g := range opt.Guides {
		add(shape{kind: shapeStroke, class: "guide", color: theme.Axis, alpha: 0xff, width: 1, dashed: true, pts: px(g.From, g.To)})
	}

	arrow := func(k state.VisKey, color, label string, a scene.Arrow) {
		add(shape{kind: shapeStroke, class: string(k), color: color, alpha: 0xff, width: arrowWidth, pts: px(a.Shaft.From, a.Shaft.To)})
		add(shape{kind: shapeFill, class: string(k), color: color, alpha: 0xff, pts: px(a.Head[:]...)})
		if !opt.NoLabels {
			tip := m.Apply(a.Shaft.To).Add(vector.V(labelOffset, -labelOffset))
			add(shape{kind: shapeLabel, class: string(k), color: color, alpha: 0xff, pts: []vector.Vec{tip}, text: label})
		}
	}
	if vis.Brot {
		arrow(state.VisBrot, theme.Brot, "B⊥", f.Arrows.Brot)
	}
	if vis.ProdABC {
		arrow(state.VisProdABC, theme.ProdABC, "ABC", f.Arrows.ProdABC)
	}
	if vis.ProdCAB {
		arrow(state.VisProdCAB, theme.ProdCAB, "CAB", f.Arrows.ProdCAB)
	}
	if vis.C {
		arrow(state.VisC, theme.VecC, "C", f.Arrows.C)
	}
	if vis.B {
		arrow(state.VisB, theme.VecB, "B", f.Arrows.B)
	}
	if vis.A {
		arrow(state.VisA, theme.VecA, "A", f.Arrows.A)
	}

	if opt.Readouts {
		y := float64(lineHeight)
		for _, r := range visibleReadouts(f, vis) {
			add(shape{kind: shapeLabel, class: "readout", color: theme.Text, alpha: 0xff, pts: []vector.Vec{vector.V(8, y)}, text: r.Text})
			y += lineHeight
		}
	}
	return out
}

func visibleReadouts(f scene.Frame, vis state.Visibility) []scene.Readout {
	var out []scene.Readout
	for _, r := range f.Readouts() {
		if vis.Get(r.Key) {
			out = append(out, r)
		}
	}
	return out
}

var asciiReplacer = strings.NewReplacer("∧", "^", "⊥", "'", "·", "*", "−", "-")

// plainText maps the math symbols used in labels onto ASCII for renderers
// whose fonts lack them.
func plainText(s string) string { return asciiReplacer.Replace(s) }

// ToFile writes the scene to path in the format given by its extension
// (.png, .svg or .pdf), creating parent directories.
func ToFile(path string, f scene.Frame, vis state.Visibility, opt Options) error {
	var enc func(io.Writer, scene.Frame, state.Visibility, Options) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		enc = PNG
	case ".svg":
		enc = SVG
	case ".pdf":
		enc = PDF
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := enc(out, f, vis, opt); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
