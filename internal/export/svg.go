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
	"bytes"
	"fmt"
	"io"
	"strings"

	"gavisualizer/internal/scene"
	"gavisualizer/internal/state"
	"gavisualizer/internal/theme"
	"gavisualizer/internal/vector"
)

// SVG writes the visible scene as an SVG document. Every element carries a
// class naming the quantity it belongs to.
func SVG(w io.Writer, f scene.Frame, vis state.Visibility, opt Options) error {
	opt, m := opt.resolve(f, vis)
	pal := opt.Palette

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %d %d\">\n", opt.Width, opt.Height, opt.Width, opt.Height)
	if opt.Title != "" {
		wf("  <title>%s</title>\n", escText(opt.Title))
	}
	wf("  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", opt.Width, opt.Height, pal.Hex(theme.Background))

	for _, s := range plan(f, vis, opt, m) {
		c := pal.Hex(s.color)
		switch s.kind {
		case shapeFill:
			wf("  <polygon class=\"%s\" points=\"%s\" fill=\"%s\" fill-opacity=\"%.2f\"/>\n", s.class, svgPoints(s.pts), c, float64(s.alpha)/255)
		case shapeStroke:
			dash := ""
			if s.dashed {
				dash = fmt.Sprintf(" stroke-dasharray=\"%g %g\"", dashOn, dashOff)
			}
			p, q := s.pts[0], s.pts[1]
			wf("  <line class=\"%s\" x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n", s.class, p.X, p.Y, q.X, q.Y, c, s.width, dash)
		case shapeLabel:
			p := s.pts[0]
			wf("  <text class=\"%s\" x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" fill=\"%s\">%s</text>\n", s.class, p.X, p.Y, c, escText(s.text))
		}
	}
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgPoints(pts []vector.Vec) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%g,%g", vector.FloatRound(p.X, 2), vector.FloatRound(p.Y, 2))
	}
	return strings.Join(parts, " ")
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
