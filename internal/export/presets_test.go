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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gavisualizer/internal/state"
)

func TestBatchExport_WebPreset(t *testing.T) {
	root := t.TempDir()
	written, err := BatchExport(BatchOptions{
		Preset:   PresetWeb,
		Examples: []string{"dot-orthogonal"},
		Render:   Options{Width: 120, Height: 120},
		OutDir:   root,
	})
	if err != nil {
		t.Fatalf("batch export web: %v", err)
	}
	checks := []string{
		filepath.Join(root, "png", "dot-orthogonal.png"),
		filepath.Join(root, "svg", "dot-orthogonal.svg"),
	}
	if len(written) != len(checks) {
		t.Fatalf("written = %v", written)
	}
	for _, p := range checks {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
		if st.Size() <= 0 {
			t.Fatalf("empty file: %s", p)
		}
	}
}

func TestBatchExport_PrintPresetCoversCatalog(t *testing.T) {
	root := t.TempDir()
	written, err := BatchExport(BatchOptions{Preset: PresetPrint, Render: Options{Width: 120, Height: 120}, OutDir: root})
	if err != nil {
		t.Fatalf("batch export print: %v", err)
	}
	if len(written) != len(state.ExampleNames()) {
		t.Fatalf("wrote %d files, want %d", len(written), len(state.ExampleNames()))
	}
	if _, err := os.Stat(filepath.Join(root, "pdf", "geometric-product.pdf")); err != nil {
		t.Fatalf("missing geometric-product.pdf: %v", err)
	}
}

func TestBatchExport_Errors(t *testing.T) {
	root := t.TempDir()
	if _, err := BatchExport(BatchOptions{Examples: []string{"nope"}, OutDir: root}); !errors.Is(err, state.ErrUnknownExample) {
		t.Fatalf("unknown example err = %v", err)
	}
	if _, err := BatchExport(BatchOptions{Formats: []string{"gif"}, Examples: []string{"dot-self"}, OutDir: root}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("unknown format err = %v", err)
	}
}
