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
	"path/filepath"
	"strings"

	"gavisualizer/internal/scene"
	"gavisualizer/internal/state"
	"gavisualizer/internal/vector"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls exporting several catalog examples in several formats.
//
// Files are written as <OutDir>/<format>/<example>.<format>. An empty OutDir
// becomes the preset name relative to the working directory.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset   PresetName
	Formats  []string // allowed: pdf, png, svg; empty means preset defaults
	Examples []string // empty means the whole catalog
	Norm     vector.NormKind
	Render   Options
	OutDir   string
}

// BatchExport renders each requested example and returns the written paths.
func BatchExport(opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	names := opt.Examples
	if len(names) == 0 {
		names = state.ExampleNames()
	}
	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if baseOut == "" {
		baseOut = "exports"
	}
	norm := opt.Norm
	if norm == "" {
		norm = vector.NormL2
	}
	render := opt.Render
	if presetReadouts(opt.Preset) {
		render.Readouts = true
	}

	var written []string
	for _, name := range names {
		ex, err := state.Example(name)
		if err != nil {
			return written, err
		}
		st := ex.Apply(state.Default())
		frame := scene.Compute(st.Vector, norm)
		ro := render
		if ro.Title == "" {
			ro.Title = ex.Title
		}
		for _, f := range formats {
			f = strings.ToLower(strings.TrimSpace(f))
			switch f {
			case "pdf", "png", "svg":
			default:
				return written, fmt.Errorf("format %q: %w", f, ErrUnsupportedFormat)
			}
			out := filepath.Join(baseOut, f, name+"."+f)
			if err := ToFile(out, frame, st.Visibility, ro); err != nil {
				return written, fmt.Errorf("%s %s: %w", f, name, err)
			}
			written = append(written, out)
		}
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf"}
	default:
		return []string{"png"}
	}
}

func presetReadouts(p PresetName) bool {
	return p == PresetPrint
}
