/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package theme maps symbolic color names to concrete colors. Renderers look
// colors up by name; the mapping is built from defaults plus user overrides and
// injected at construction.
package theme

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// Symbolic color names used by the renderers.
const (
	VecA       = "vecA"
	VecB       = "vecB"
	VecC       = "vecC"
	Brot       = "brot"
	DotArea    = "dot"
	WedgeArea  = "wedge"
	ProdABC    = "prodABC"
	ProdCAB    = "prodCAB"
	Dashed     = "dashed"
	Axis       = "axis"
	Grid       = "grid"
	Background = "background"
	Text       = "text"
)

// Palette is an immutable name→color mapping.
type Palette struct {
	colors map[string]color.RGBA
}

var defaults = map[string]string{
	VecA:       "#e6194b",
	VecB:       "#3cb44b",
	VecC:       "#4363d8",
	Brot:       "#9ccc65",
	DotArea:    "#f58231",
	WedgeArea:  "#911eb4",
	ProdABC:    "#008080",
	ProdCAB:    "#9a6324",
	Dashed:     "#808080",
	Axis:       "#404040",
	Grid:       "#e0e0e0",
	Background: "#ffffff",
	Text:       "#111111",
}

// Default returns the built-in light palette.
func Default() Palette {
	p, _ := New(nil)
	return p
}

// New builds a palette from the defaults with overrides applied.
// Override keys must be known names; values are #rgb, #rrggbb or #rrggbbaa.
func New(overrides map[string]string) (Palette, error) {
	p := Palette{colors: make(map[string]color.RGBA, len(defaults))}
	for k, v := range defaults {
		c, err := ParseHex(v)
		if err != nil {
			return Palette{}, err
		}
		p.colors[k] = c
	}
	for k, v := range overrides {
		if _, ok := defaults[k]; !ok {
			return Palette{}, fmt.Errorf("theme: unknown color name %q", k)
		}
		c, err := ParseHex(v)
		if err != nil {
			return Palette{}, fmt.Errorf("theme: %s: %w", k, err)
		}
		p.colors[k] = c
	}
	return p, nil
}

// IsZero reports whether p is the zero Palette rather than one built by New.
func (p Palette) IsZero() bool { return p.colors == nil }

// Color returns the color for name; unknown names resolve to the text color.
func (p Palette) Color(name string) color.RGBA {
	if c, ok := p.colors[name]; ok {
		return c
	}
	if c, ok := p.colors[Text]; ok {
		return c
	}
	return color.RGBA{A: 255}
}

// WithAlpha returns the color for name with alpha replaced (non-premultiplied).
func (p Palette) WithAlpha(name string, a uint8) color.NRGBA {
	c := p.Color(name)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Hex returns the color for name as #rrggbb.
func (p Palette) Hex(name string) string {
	c := p.Color(name)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Names returns all known color names sorted.
func Names() []string {
	out := make([]string, 0, len(defaults))
	for k := range defaults {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseHex parses #rgb, #rrggbb and #rrggbbaa.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
