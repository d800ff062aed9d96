//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gavisualizer/internal/config"
	"gavisualizer/internal/crash"
	"gavisualizer/internal/export"
	applog "gavisualizer/internal/log"
	"gavisualizer/internal/scene"
	"gavisualizer/internal/state"
	"gavisualizer/internal/theme"
	"gavisualizer/internal/vector"
	"gavisualizer/internal/visualizer"
)

const redrawInterval = 33 * time.Millisecond

// Run starts the Fyne-based desktop UI and blocks until the window closes.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	pal, err := cfg.Palette()
	if err != nil {
		l.Warn("invalid theme, using defaults", slog.Any("err", err))
		pal = theme.Default()
	}
	sc := NewSceneCanvas(pal)
	initial := cfg.InitialState()
	v := visualizer.New(visualizer.Options{
		Initial:      &initial,
		Norm:         cfg.NormKind(),
		HistoryDepth: cfg.History.MaxDepth,
		Display:      sc,
	})
	sc.Attach(v)
	defer crash.Recover(v)

	fyneApp := app.NewWithID("gavisualizer")
	w := fyneApp.NewWindow("GA Visualizer")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	history := widget.NewLabel("")
	report := func(action string, err error) {
		if err == nil {
			return
		}
		l.Warn(action+" failed", slog.Any("err", err))
		status.SetText(fmt.Sprintf("%s: %v", action, err))
	}

	// Widgets write back into the coordinator only when the user moved them;
	// syncing suppresses the callbacks fired by programmatic updates.
	syncing := false

	sliderGesture := &gestureTracker{v: v}
	sliders := make(map[state.Key][2]*widget.Slider, len(state.Keys))
	vectorsBox := container.NewVBox()
	for _, k := range state.Keys {
		var pair [2]*widget.Slider
		for i, axis := range []state.Axis{state.AxisX, state.AxisY} {
			s := widget.NewSlider(-SliderRange, SliderRange)
			s.Step = SliderStep
			s.OnChanged = func(val float64) {
				if syncing {
					return
				}
				report("move "+string(k), sliderGesture.moveAxis(k, axis, val))
			}
			s.OnChangeEnded = func(float64) {
				if syncing {
					return
				}
				sliderGesture.end()
			}
			pair[i] = s
		}
		sliders[k] = pair
		vectorsBox.Add(widget.NewLabel("Vector " + string(k) + "  (x, y)"))
		vectorsBox.Add(container.NewGridWithColumns(2, pair[0], pair[1]))
	}

	checks := make(map[state.VisKey]*widget.Check, len(state.VisKeys))
	checkObjs := make([]fyne.CanvasObject, 0, len(state.VisKeys))
	for _, k := range state.VisKeys {
		c := widget.NewCheck(VisLabel(k), func(on bool) {
			if syncing || v.State().Visibility.Get(k) == on {
				return
			}
			report("toggle "+string(k), v.ToggleVisibility(k))
		})
		checks[k] = c
		checkObjs = append(checkObjs, c)
	}

	readouts := make(map[state.VisKey]*widget.Label, len(state.VisKeys))
	readoutBox := container.NewVBox()
	for _, k := range state.VisKeys {
		lbl := widget.NewLabel("")
		lbl.Wrapping = fyne.TextWrapWord
		readouts[k] = lbl
		readoutBox.Add(lbl)
	}

	exampleSel := widget.NewSelect(state.ExampleNames(), func(name string) {
		if syncing || name == "" {
			return
		}
		report("load example", v.LoadExample(name))
	})
	exampleSel.PlaceHolder = "Load example…"

	normNames := make([]string, len(vector.NormKinds))
	for i, k := range vector.NormKinds {
		normNames[i] = string(k)
	}
	normSel := widget.NewSelect(normNames, func(s string) {
		if syncing {
			return
		}
		k, err := vector.ParseNormKind(s)
		if err != nil {
			report("norm", err)
			return
		}
		v.SetNorm(k)
	})

	undoBtn := widget.NewButton("Undo", func() { v.Undo() })
	redoBtn := widget.NewButton("Redo", func() { v.Redo() })
	resetBtn := widget.NewButton("Reset", func() { v.Reset() })
	normBtns := make([]fyne.CanvasObject, 0, len(state.Keys))
	for _, k := range state.Keys {
		normBtns = append(normBtns, widget.NewButton("Normalize "+string(k), func() {
			report("normalize "+string(k), v.Normalize(k))
		}))
	}

	doExport := func() {
		dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if wc == nil {
				return
			}
			defer func() { _ = wc.Close() }()
			var enc func(io.Writer, scene.Frame, state.Visibility, export.Options) error
			switch strings.ToLower(wc.URI().Extension()) {
			case ".svg":
				enc = export.SVG
			case ".pdf":
				enc = export.PDF
			default:
				enc = export.PNG
			}
			opt, err := cfg.RenderOptions()
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			opt.Readouts = true
			if err := enc(wc, v.Frame(), v.State().Visibility, opt); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Exported " + wc.URI().Name())
		}, w)
	}
	doOpen := func() {
		dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return
			}
			defer func() { _ = rc.Close() }()
			data, err := io.ReadAll(rc)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if err := v.LoadJSON(data); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Loaded " + rc.URI().Name())
		}, w)
	}
	exportBtn := widget.NewButton("Export…", doExport)
	openBtn := widget.NewButton("Open state…", doOpen)

	refresh := func() {
		st := v.State()
		f := v.Frame()
		syncing = true
		for k, pair := range sliders {
			vec, _ := st.Vector.Get(k)
			pair[0].SetValue(vec.X)
			pair[1].SetValue(vec.Y)
		}
		for k, c := range checks {
			c.SetChecked(st.Visibility.Get(k))
		}
		normSel.SetSelected(string(v.Norm()))
		syncing = false
		for _, r := range f.Readouts() {
			lbl := readouts[r.Key]
			lbl.SetText(r.Text)
			if st.Visibility.Get(r.Key) {
				lbl.Show()
			} else {
				lbl.Hide()
			}
		}
		if v.CanUndo() {
			undoBtn.Enable()
		} else {
			undoBtn.Disable()
		}
		if v.CanRedo() {
			redoBtn.Enable()
		} else {
			redoBtn.Disable()
		}
		u, r := v.HistoryDepth()
		history.SetText(fmt.Sprintf("History: %d undo, %d redo", u, r))
		sc.Refresh()
	}

	// Keyboard shortcuts
	shortcut := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { fn() })
	}
	shortcut(fyne.KeyZ, fyne.KeyModifierControl, func() { v.Undo() })
	shortcut(fyne.KeyY, fyne.KeyModifierControl, func() { v.Redo() })
	shortcut(fyne.KeyZ, fyne.KeyModifierControl|fyne.KeyModifierShift, func() { v.Redo() })
	shortcut(fyne.KeyR, fyne.KeyModifierControl, func() { v.Reset() })
	shortcut(fyne.KeyE, fyne.KeyModifierControl, doExport)
	shortcut(fyne.KeyO, fyne.KeyModifierControl, doOpen)
	w.Canvas().SetOnTypedRune(func(r rune) {
		if k, ok := VisKeyForRune(r); ok {
			report("toggle "+string(k), v.ToggleVisibility(k))
		}
	})

	side := container.NewVScroll(container.NewVBox(
		widget.NewLabel("Example"), exampleSel,
		widget.NewLabel("Norm"), normSel,
		widget.NewSeparator(),
		vectorsBox,
		container.NewGridWithColumns(3, normBtns...),
		widget.NewSeparator(),
		container.NewGridWithColumns(2, checkObjs...),
		widget.NewSeparator(),
		container.NewGridWithColumns(3, undoBtn, redoBtn, resetBtn),
		container.NewGridWithColumns(2, openBtn, exportBtn),
		widget.NewSeparator(),
		readoutBox,
	))
	split := container.NewHSplit(sc, side)
	split.Offset = 0.62
	w.SetContent(container.NewBorder(nil, container.NewBorder(nil, nil, nil, history, status), nil, nil, split))

	// Redraw only when the coordinator published something new.
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		t := time.NewTicker(redrawInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if v.ConsumeDirty() {
					fyne.Do(refresh)
				}
			}
		}
	}()
	w.SetOnClosed(func() {
		cancel()
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	refresh()
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}
