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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"gavisualizer/internal/export"
	"gavisualizer/internal/state"
	"gavisualizer/internal/theme"
	"gavisualizer/internal/vector"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type GeneralConfig struct {
	// DefaultExample is loaded at startup when set; empty means built-in defaults.
	DefaultExample string `yaml:"default_example"`
	// Norm is the metric for magnitude readouts: l2 | l1 | l0 | linf.
	Norm string `yaml:"norm"`
}

type HistoryConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

type ExportConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"` // 0 fits the visible scene
	FontFile      string  `yaml:"font_file,omitempty"` // TTF/OTF for PNG labels
	FontSize      float64 `yaml:"font_size,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int               `yaml:"config_version"`
	General       GeneralConfig     `yaml:"general"`
	History       HistoryConfig     `yaml:"history"`
	Theme         map[string]string `yaml:"theme,omitempty"`
	Export        ExportConfig      `yaml:"export"`
	Logging       LoggingConfig     `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{DefaultExample: "", Norm: string(vector.NormL2)},
		History:       HistoryConfig{MaxDepth: 50},
		Export:        ExportConfig{Width: 800, Height: 800, PixelsPerUnit: 0},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvDefaultExample = "GAV_DEFAULT_EXAMPLE"
	EnvNorm           = "GAV_NORM"
	EnvHistoryDepth   = "GAV_HISTORY_DEPTH"
	EnvExportWidth    = "GAV_EXPORT_WIDTH"
	EnvExportHeight   = "GAV_EXPORT_HEIGHT"
	EnvExportPPU      = "GAV_EXPORT_PPU"
	EnvExportFont     = "GAV_EXPORT_FONT"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GAV_LOG_LEVEL"
	EnvLogFormat = "GAV_LOG_FORMAT"
	EnvLogSource = "GAV_LOG_SOURCE"
	EnvLogFile   = "GAV_LOG_FILE"
	// EnvConfigFile points Load at an explicit file instead of the per-user path.
	EnvConfigFile = "GAV_CONFIG"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GAVisualizer")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GAVisualizer")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "gavisualizer")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "gavisualizer")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit path. A missing file is not an error;
// a file that does not parse is.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML to the per-user path.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path, creating parent directories.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks the values that other packages would otherwise reject later.
func (c AppConfig) Validate() error {
	var errs []error
	if _, err := vector.ParseNormKind(c.General.Norm); err != nil {
		errs = append(errs, fmt.Errorf("general.norm: %w", err))
	}
	if c.General.DefaultExample != "" {
		if _, err := state.Example(c.General.DefaultExample); err != nil {
			errs = append(errs, fmt.Errorf("general.default_example: %w", err))
		}
	}
	if c.History.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("history.max_depth must not be negative"))
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		errs = append(errs, fmt.Errorf("export size must be positive, got %dx%d", c.Export.Width, c.Export.Height))
	}
	if _, err := theme.New(c.Theme); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NormKind returns the configured metric, falling back to Euclidean.
func (c AppConfig) NormKind() vector.NormKind {
	k, err := vector.ParseNormKind(c.General.Norm)
	if err != nil {
		return vector.NormL2
	}
	return k
}

// Palette builds the configured color palette.
func (c AppConfig) Palette() (theme.Palette, error) { return theme.New(c.Theme) }

// RenderOptions builds exporter options from the export and theme sections,
// loading the label font when one is configured.
func (c AppConfig) RenderOptions() (export.Options, error) {
	pal, err := c.Palette()
	if err != nil {
		return export.Options{}, err
	}
	opt := export.Options{
		Width:         c.Export.Width,
		Height:        c.Export.Height,
		PixelsPerUnit: c.Export.PixelsPerUnit,
		Palette:       pal,
	}
	if c.Export.FontFile != "" {
		face, err := export.LoadFace(c.Export.FontFile, c.Export.FontSize)
		if err != nil {
			return export.Options{}, err
		}
		opt.Face = face
	}
	return opt, nil
}

// InitialState returns the configured startup state.
func (c AppConfig) InitialState() state.VisualizerState {
	s := state.Default()
	if c.General.DefaultExample == "" {
		return s
	}
	if e, err := state.Example(c.General.DefaultExample); err == nil {
		return e.Apply(s)
	}
	return s
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if s := strings.TrimSpace(src.General.DefaultExample); s != "" {
		dst.General.DefaultExample = s
	}
	if s := strings.TrimSpace(src.General.Norm); s != "" {
		dst.General.Norm = strings.ToLower(s)
	}
	if src.History.MaxDepth != 0 {
		dst.History.MaxDepth = src.History.MaxDepth
	}
	if len(src.Theme) > 0 {
		dst.Theme = make(map[string]string, len(src.Theme))
		for k, v := range src.Theme {
			dst.Theme[k] = v
		}
	}
	if src.Export.Width != 0 {
		dst.Export.Width = src.Export.Width
	}
	if src.Export.Height != 0 {
		dst.Export.Height = src.Export.Height
	}
	if src.Export.PixelsPerUnit != 0 {
		dst.Export.PixelsPerUnit = src.Export.PixelsPerUnit
	}
	if strings.TrimSpace(src.Export.FontFile) != "" {
		dst.Export.FontFile = strings.TrimSpace(src.Export.FontFile)
	}
	if src.Export.FontSize != 0 {
		dst.Export.FontSize = src.Export.FontSize
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvDefaultExample)); v != "" {
		cfg.General.DefaultExample = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNorm)); v != "" {
		cfg.General.Norm = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryDepth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.History.MaxDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportWidth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Export.Width = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportHeight)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Export.Height = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportPPU)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Export.PixelsPerUnit = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportFont)); v != "" {
		cfg.Export.FontFile = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"general.default_example": EnvDefaultExample,
		"general.norm":            EnvNorm,
		"history.max_depth":       EnvHistoryDepth,
		"export.width":            EnvExportWidth,
		"export.height":           EnvExportHeight,
		"export.pixels_per_unit":  EnvExportPPU,
		"export.font_file":        EnvExportFont,
		"logging.level":           EnvLogLevel,
		"logging.format":          EnvLogFormat,
		"logging.source":          EnvLogSource,
		"logging.file":            EnvLogFile,
	}
	if env, ok := names[key]; ok && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
