/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gavisualizer/internal/state"
	"gavisualizer/internal/theme"
	"gavisualizer/internal/vector"
)

func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, p)
	for _, k := range []string{EnvDefaultExample, EnvNorm, EnvHistoryDepth, EnvExportWidth, EnvExportHeight, EnvExportPPU, EnvExportFont, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(k, "")
	}
	return p
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := Defaults()
	if cfg.General != def.General || cfg.History != def.History || cfg.Export != def.Export {
		t.Fatalf("cfg = %#v, want defaults %#v", cfg, def)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := isolate(t)
	cfg := Defaults()
	cfg.General.DefaultExample = "wedge-orthogonal"
	cfg.General.Norm = "linf"
	cfg.History.MaxDepth = 12
	cfg.Theme = map[string]string{theme.VecA: "#112233"}
	cfg.Export.Width = 640
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.General != cfg.General || got.History.MaxDepth != 12 || got.Export.Width != 640 {
		t.Fatalf("round trip mismatch: %#v", got)
	}
	if got.Theme[theme.VecA] != "#112233" {
		t.Fatalf("theme not persisted: %#v", got.Theme)
	}
	if got.NormKind() != vector.NormLInf {
		t.Fatalf("NormKind = %v", got.NormKind())
	}
}

func TestLoadFromRejectsBadYAML(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("general: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(p)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.History.MaxDepth != Defaults().History.MaxDepth {
		t.Fatalf("defaults not returned alongside error: %#v", cfg)
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(p, []byte("history:\n  max_depth: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.History.MaxDepth != 7 {
		t.Fatalf("MaxDepth = %d, want 7", cfg.History.MaxDepth)
	}
	if cfg.Export.Width != 800 || cfg.General.Norm != "l2" {
		t.Fatalf("defaults lost: %#v", cfg)
	}
}

func TestEnvOverridesNormAndHistory(t *testing.T) {
	isolate(t)
	t.Setenv(EnvNorm, "L1")
	t.Setenv(EnvHistoryDepth, "20")
	t.Setenv(EnvExportPPU, "64")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.General.Norm != "l1" || cfg.History.MaxDepth != 20 || cfg.Export.PixelsPerUnit != 64 {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
	if env, ok := EnvOverrideFor("general.norm"); !ok || env != EnvNorm {
		t.Fatalf("EnvOverrideFor(general.norm) = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("export.width"); ok {
		t.Fatalf("export.width reported as overridden")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/gav.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/gav.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/gav.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/gav.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Defaults()
	cfg.General.Norm = "l3"
	cfg.General.DefaultExample = "nope"
	cfg.Export.Width = 0
	cfg.Theme = map[string]string{"mauve": "#fff"}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !errors.Is(err, state.ErrUnknownExample) {
		t.Fatalf("unknown example not reported: %v", err)
	}
	if cfg.NormKind() != vector.NormL2 {
		t.Fatalf("invalid norm should fall back to l2")
	}
}

func TestInitialStateFromDefaultExample(t *testing.T) {
	cfg := Defaults()
	if !cfg.InitialState().Equal(state.Default()) {
		t.Fatalf("empty default_example should give the default state")
	}
	cfg.General.DefaultExample = "dot-orthogonal"
	e, err := state.Example("dot-orthogonal")
	if err != nil {
		t.Fatal(err)
	}
	want := e.Apply(state.Default())
	if got := cfg.InitialState(); !got.Equal(want) {
		t.Fatalf("InitialState = %#v, want %#v", got, want)
	}
}

func TestPaletteUsesOverrides(t *testing.T) {
	cfg := Defaults()
	cfg.Theme = map[string]string{theme.Background: "#000000"}
	p, err := cfg.Palette()
	if err != nil {
		t.Fatalf("Palette() error: %v", err)
	}
	if got := p.Hex(theme.Background); got != "#000000" {
		t.Fatalf("background = %s", got)
	}
}

func TestRenderOptions(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Export.Width = 320
	cfg.Theme = map[string]string{theme.Text: "#000000"}
	opt, err := cfg.RenderOptions()
	if err != nil {
		t.Fatalf("RenderOptions: %v", err)
	}
	if opt.Width != 320 || opt.Height != 800 || opt.Face != nil {
		t.Fatalf("opt = %+v", opt)
	}
	if c := opt.Palette.Color(theme.Text); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Fatalf("text color = %v", c)
	}

	t.Setenv(EnvExportFont, filepath.Join(t.TempDir(), "missing.ttf"))
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := cfg.RenderOptions(); err == nil {
		t.Fatalf("expected error for missing font file")
	}
}
