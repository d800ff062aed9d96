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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	xvector "golang.org/x/image/vector"

	"gavisualizer/internal/scene"
	"gavisualizer/internal/state"
	"gavisualizer/internal/theme"
	"gavisualizer/internal/vector"
)

const (
	dashOn  = 6.0
	dashOff = 4.0
)

// PNG rasterizes the visible scene with anti-aliased fills and strokes.
func PNG(w io.Writer, f scene.Frame, vis state.Visibility, opt Options) error {
	img := Rasterize(f, vis, opt)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Rasterize draws the visible scene into a new image.
func Rasterize(f scene.Frame, vis state.Visibility, opt Options) *image.RGBA {
	opt, m := opt.resolve(f, vis)
	img := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opt.Palette.Color(theme.Background)}, image.Point{}, draw.Src)

	face, text := opt.Face, func(s string) string { return s }
	if face == nil {
		face, text = basicfont.Face7x13, plainText
	}
	r := xvector.NewRasterizer(opt.Width, opt.Height)
	for _, s := range plan(f, vis, opt, m) {
		col := opt.Palette.WithAlpha(s.color, s.alpha)
		switch s.kind {
		case shapeFill:
			fillPolygon(r, img, s.pts, col)
		case shapeStroke:
			for _, seg := range dashes(s.pts[0], s.pts[1], s.dashed) {
				fillPolygon(r, img, quad(seg[0], seg[1], s.width), col)
			}
		case shapeLabel:
			d := font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(col),
				Face: face,
				Dot:  fixed.P(int(math.Round(s.pts[0].X)), int(math.Round(s.pts[0].Y))),
			}
			d.DrawString(text(s.text))
		}
	}
	return img
}

func fillPolygon(r *xvector.Rasterizer, dst draw.Image, pts []vector.Vec, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	b := dst.Bounds()
	r.Reset(b.Dx(), b.Dy())
	r.DrawOp = draw.Over
	r.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(col), image.Point{})
}

// quad is the rectangle of the given width centered on p→q.
func quad(p, q vector.Vec, width float64) []vector.Vec {
	d := q.Sub(p)
	l := vector.Norm2(d)
	if l == 0 {
		return nil
	}
	n := d.Rotate().Scale(width / 2 / l)
	return []vector.Vec{p.Add(n), q.Add(n), q.Sub(n), p.Sub(n)}
}

// dashes splits p→q into on-segments; a solid line is one segment.
func dashes(p, q vector.Vec, dashed bool) [][2]vector.Vec {
	if !dashed {
		return [][2]vector.Vec{{p, q}}
	}
	d := q.Sub(p)
	l := vector.Norm2(d)
	if l == 0 {
		return nil
	}
	var out [][2]vector.Vec
	for t := 0.0; t < l; t += dashOn + dashOff {
		end := math.Min(t+dashOn, l)
		out = append(out, [2]vector.Vec{p.Lerp(q, t/l), p.Lerp(q, end/l)})
	}
	return out
}
