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
	"image"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"gavisualizer/internal/export"
	applog "gavisualizer/internal/log"
	"gavisualizer/internal/scene"
	"gavisualizer/internal/state"
	"gavisualizer/internal/theme"
	"gavisualizer/internal/vector"
	"gavisualizer/internal/visualizer"
)

// SceneCanvas draws the latest published frame and turns pointer drags on
// vector tips into coordinator gestures. It is the scene.Display of the
// desktop UI. Supports zoom with the wheel.
type SceneCanvas struct {
	widget.BaseWidget

	mu      sync.Mutex
	frame   scene.Frame
	vis     state.Visibility
	palette theme.Palette
	zoom    float64 // canvas units per world unit; 0 follows the widget size
	guides  []vector.GuideLine

	gesture  *gestureTracker
	dragging bool
	dragKey  state.Key
	raster   *canvas.Raster
}

var _ scene.Display = (*SceneCanvas)(nil)

// NewSceneCanvas builds an empty canvas. Call Attach once the coordinator exists.
func NewSceneCanvas(pal theme.Palette) *SceneCanvas {
	c := &SceneCanvas{palette: pal}
	c.raster = canvas.NewRaster(c.draw)
	c.raster.SetMinSize(fyne.NewSize(480, 480))
	c.ExtendBaseWidget(c)
	return c
}

// Attach connects pointer gestures to v.
func (c *SceneCanvas) Attach(v *visualizer.Visualizer) {
	c.gesture = &gestureTracker{v: v}
}

// Update stores f for the next redraw. It runs under the coordinator's lock,
// so it only records.
func (c *SceneCanvas) Update(f scene.Frame) {
	c.mu.Lock()
	c.frame = f
	c.mu.Unlock()
}

// SetVisibility stores vis for the next redraw.
func (c *SceneCanvas) SetVisibility(vis state.Visibility) {
	c.mu.Lock()
	c.vis = vis
	c.mu.Unlock()
}

// CreateRenderer wraps the raster that re-renders the scene at the current size.
func (c *SceneCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

func (c *SceneCanvas) zoomLocked(size fyne.Size) float64 {
	if c.zoom > 0 {
		return c.zoom
	}
	return DefaultZoom(float64(size.Width), float64(size.Height))
}

func (c *SceneCanvas) draw(w, h int) image.Image {
	size := c.Size()
	c.mu.Lock()
	f, vis, pal, guides := c.frame, c.vis, c.palette, c.guides
	zoom := c.zoomLocked(size)
	c.mu.Unlock()

	scale := 1.0
	if size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}
	return export.Rasterize(f, vis, export.Options{Width: w, Height: h, PixelsPerUnit: zoom * scale, Palette: pal, Guides: guides})
}

func (c *SceneCanvas) toWorld(pos fyne.Position) (vector.Vec, float64) {
	size := c.Size()
	c.mu.Lock()
	zoom := c.zoomLocked(size)
	c.mu.Unlock()
	return ToWorld(float64(pos.X), float64(pos.Y), float64(size.Width), float64(size.Height), zoom), zoom
}

// Dragged moves the vector whose tip the drag started on.
func (c *SceneCanvas) Dragged(e *fyne.DragEvent) {
	if c.gesture == nil {
		return
	}
	if !c.dragging {
		c.dragging = true
		start := e.Position.Subtract(e.Dragged)
		p, zoom := c.toWorld(start)
		c.mu.Lock()
		f, vis := c.frame, c.vis
		c.mu.Unlock()
		k, ok := PickHandle(f, vis, p, HandleTolerance/zoom)
		if !ok {
			c.dragKey = ""
			return
		}
		c.dragKey = k
	}
	if c.dragKey == "" {
		return
	}
	p, zoom := c.toWorld(e.Position)
	c.mu.Lock()
	vs := c.frame.Vectors
	c.mu.Unlock()
	p, guides := vector.ComputeSmartGuides(p, SnapFor(c.dragKey, vs, zoom))
	c.mu.Lock()
	c.guides = guides
	c.mu.Unlock()
	if err := c.gesture.movePoint(c.dragKey, p); err != nil {
		applog.WithComponent("ui").Warn("drag failed", slog.String("vector", string(c.dragKey)), slog.Any("err", err))
		return
	}
	c.Refresh()
}

// DragEnd closes the gesture, making it one undo step.
func (c *SceneCanvas) DragEnd() {
	c.dragging = false
	c.dragKey = ""
	c.mu.Lock()
	c.guides = nil
	c.mu.Unlock()
	if c.gesture != nil {
		c.gesture.end()
	}
	c.Refresh()
}

// Guides returns the snap guides shown for the current drag.
func (c *SceneCanvas) Guides() []vector.GuideLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]vector.GuideLine(nil), c.guides...)
}

// Scrolled zooms around the origin.
func (c *SceneCanvas) Scrolled(e *fyne.ScrollEvent) {
	size := c.Size()
	c.mu.Lock()
	z := c.zoomLocked(size)
	c.zoom = ClampZoom(z * (1 + float64(e.Scrolled.DY)*0.002))
	c.mu.Unlock()
	c.Refresh()
}
