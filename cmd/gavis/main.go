/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gavisualizer/internal/config"
	"gavisualizer/internal/crash"
	"gavisualizer/internal/export"
	applog "gavisualizer/internal/log"
	"gavisualizer/internal/state"
	"gavisualizer/internal/ui"
	"gavisualizer/internal/vector"
	"gavisualizer/internal/version"
	"gavisualizer/internal/visualizer"
)

const banner = "GA Visualizer: dot, wedge and geometric products in the plane"

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, banner)
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  gavis version|-v|--version                        Show version")
	_, _ = fmt.Fprintln(w, "  gavis examples                                    List the example catalog")
	_, _ = fmt.Fprintln(w, "  gavis show [<example>|<state.json>] [flags]       Print the derived quantities")
	_, _ = fmt.Fprintln(w, "  gavis export <out.png|svg|pdf> [<example>|<state.json>] [flags]")
	_, _ = fmt.Fprintln(w, "  gavis batch <outdir> [web|print]                  Export every example")
	_, _ = fmt.Fprintln(w, "  gavis validate <state.json>                       Check a state document")
	_, _ = fmt.Fprintln(w, "  gavis config                                      Show the config file path and check it")
	_, _ = fmt.Fprintln(w, "  gavis ui                                          Launch desktop UI (build with -tags fyne)")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Flags: --latex (show), --norm l2|l1|l0|linf, --all (show hidden quantities too)")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli carries the parsed flags shared by the subcommands.
type cli struct {
	cfg   config.AppConfig
	latex bool
	all   bool
	norm  vector.NormKind
	pos   []string
}

func parseArgs(cfg config.AppConfig, args []string) (cli, error) {
	c := cli{cfg: cfg, norm: cfg.NormKind()}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--latex":
			c.latex = true
		case a == "--all":
			c.all = true
		case a == "--norm":
			if i+1 >= len(args) {
				return c, errors.New("--norm requires a value")
			}
			i++
			k, err := vector.ParseNormKind(args[i])
			if err != nil {
				return c, err
			}
			c.norm = k
		case strings.HasPrefix(a, "--norm="):
			k, err := vector.ParseNormKind(strings.TrimPrefix(a, "--norm="))
			if err != nil {
				return c, err
			}
			c.norm = k
		case strings.HasPrefix(a, "--"):
			return c, fmt.Errorf("unknown flag %s", a)
		default:
			c.pos = append(c.pos, a)
		}
	}
	return c, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, cfgErr := config.Load()
	// initialize structured logging from the config (env overrides already applied)
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}
	l.Debug("start", slog.Int("args", len(args)))

	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	c, err := parseArgs(cfg, args[1:])
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		usage(stderr)
		return 2
	}

	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(stdout, banner)
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	case "examples":
		for _, e := range state.Examples() {
			_, _ = fmt.Fprintf(stdout, "%-20s %s\n", e.Name, e.Title)
		}
		return 0
	case "show":
		v, err := c.load(optional(c.pos, 0))
		if err != nil {
			return fail(stderr, l, "show", err)
		}
		defer crash.Recover(v)
		st := v.State()
		for _, r := range v.Frame().Readouts() {
			if !c.all && !st.Visibility.Get(r.Key) {
				continue
			}
			text := r.Text
			if c.latex {
				text = r.LaTeX
			}
			_, _ = fmt.Fprintf(stdout, "%-8s %s\n", r.Key, text)
		}
		return 0
	case "export":
		if len(c.pos) < 1 {
			_, _ = fmt.Fprintln(stderr, "export requires <out.png|svg|pdf>")
			usage(stderr)
			return 2
		}
		v, err := c.load(optional(c.pos, 1))
		if err != nil {
			return fail(stderr, l, "export", err)
		}
		defer crash.Recover(v)
		opt, err := cfg.RenderOptions()
		if err != nil {
			return fail(stderr, l, "export", err)
		}
		opt.Readouts = true
		out := c.pos[0]
		if err := export.ToFile(out, v.Frame(), v.State().Visibility, opt); err != nil {
			return fail(stderr, l, "export", err)
		}
		l.Info("exported", slog.String("path", out))
		_, _ = fmt.Fprintln(stdout, "Wrote", out)
		return 0
	case "batch":
		if len(c.pos) < 1 {
			_, _ = fmt.Fprintln(stderr, "batch requires <outdir>")
			usage(stderr)
			return 2
		}
		render, err := cfg.RenderOptions()
		if err != nil {
			return fail(stderr, l, "batch", err)
		}
		preset := export.PresetName(optional(c.pos, 1))
		if preset == "" {
			preset = export.PresetWeb
		}
		written, err := export.BatchExport(export.BatchOptions{
			Preset: preset,
			Norm:   c.norm,
			Render: render,
			OutDir: c.pos[0],
		})
		if err != nil {
			return fail(stderr, l, "batch", err)
		}
		_, _ = fmt.Fprintf(stdout, "Wrote %d files to %s\n", len(written), c.pos[0])
		return 0
	case "validate":
		if len(c.pos) < 1 {
			_, _ = fmt.Fprintln(stderr, "validate requires <state.json>")
			usage(stderr)
			return 2
		}
		data, err := os.ReadFile(c.pos[0])
		if err != nil {
			return fail(stderr, l, "validate", err)
		}
		if err := state.Validate(data); err != nil {
			return fail(stderr, l, "validate", err)
		}
		_, _ = fmt.Fprintln(stdout, "ok")
		return 0
	case "config":
		path, err := config.ConfigPath()
		if err != nil {
			return fail(stderr, l, "config", err)
		}
		_, _ = fmt.Fprintln(stdout, "Config:", path)
		if cfgErr != nil {
			return fail(stderr, l, "config", cfgErr)
		}
		if err := cfg.Validate(); err != nil {
			return fail(stderr, l, "config", err)
		}
		for _, key := range []string{"general.norm", "general.default_example", "history.max_depth", "logging.level"} {
			if env, ok := config.EnvOverrideFor(key); ok {
				_, _ = fmt.Fprintf(stdout, "%s overridden by %s\n", key, env)
			}
		}
		_, _ = fmt.Fprintln(stdout, "ok")
		return 0
	case "ui":
		if err := ui.Run(cfg); err != nil {
			return fail(stderr, l, "ui", err)
		}
		return 0
	}

	_, _ = fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	usage(stderr)
	return 2
}

// load builds a coordinator from the configured start state, then applies
// src: an example name, a path to a state JSON document, or nothing.
func (c cli) load(src string) (*visualizer.Visualizer, error) {
	initial := c.cfg.InitialState()
	v := visualizer.New(visualizer.Options{Initial: &initial, Norm: c.norm, HistoryDepth: c.cfg.History.MaxDepth})
	if src == "" {
		return v, nil
	}
	if _, err := state.Example(src); err == nil {
		return v, v.LoadExample(src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%q is neither an example nor a file: %w", src, state.ErrUnknownExample)
		}
		return nil, err
	}
	if err := v.LoadJSON(data); err != nil {
		return nil, err
	}
	return v, nil
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func fail(stderr io.Writer, l *slog.Logger, op string, err error) int {
	applog.WithOperation(l, op).Error("command failed", slog.Any("err", err))
	_, _ = fmt.Fprintln(stderr, "Error:", err)
	return 1
}
