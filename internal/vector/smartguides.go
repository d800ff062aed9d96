/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package vector

// Smart guides and snapping helpers for dragging vector tips. These utilities
// are UI-agnostic and deterministic to enable unit testing and reuse across
// different frontends.

import "math"

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance (world units) at which snapping occurs.
	Threshold float64
	// Grid is the spacing of the snap grid; 0 disables grid snapping.
	Grid float64
	// Lines are directions through the origin the point may snap onto, for
	// example another vector (parallel) and its rotation (orthogonal).
	Lines []Anchor
}

// Anchor is a direction through the origin. Weight biases selection when
// distances tie (higher = preferred); when uncertain, set Weight to 1.
type Anchor struct {
	Dir    Vec
	Weight float64
	Kind   string // e.g. "parallel" or "orthogonal"
}

// GuideLine describes a visual guide generated during a snap.
// Orientation is "vertical", "horizontal" or "radial".
// From and To denote the guide extents for rendering; values are rounded to
// 3 decimal places for deterministic behavior.
type GuideLine struct {
	Orientation string
	Kind        string
	From        Vec
	To          Vec
}

// ComputeSmartGuides snaps p onto the closest anchor line within the
// threshold; failing that it snaps X and Y independently to the grid. It
// returns the snapped point and the guides to render for visual feedback.
func ComputeSmartGuides(p Vec, opts SnapOptions) (Vec, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 0.1
	}
	if !p.IsFinite() {
		return p, nil
	}

	best, bestScore, bestGuide, found := p, math.Inf(1), GuideLine{}, false
	for _, a := range opts.Lines {
		dd := a.Dir.Dot(a.Dir)
		if dd == 0 || !a.Dir.IsFinite() {
			continue
		}
		q := a.Dir.Scale(p.Dot(a.Dir) / dd)
		dist := Norm2(p.Sub(q))
		if dist > opts.Threshold {
			continue
		}
		score := dist / math.Max(1, a.Weight)
		if score < bestScore {
			reach := math.Max(Norm2(q), 1) * 1.5 / math.Sqrt(dd)
			best, bestScore, found = q, score, true
			bestGuide = GuideLine{
				Orientation: "radial",
				Kind:        a.Kind,
				From:        round3(a.Dir.Scale(-reach)),
				To:          round3(a.Dir.Scale(reach)),
			}
		}
	}
	if found {
		return round3(best), []GuideLine{bestGuide}
	}

	if opts.Grid <= 0 {
		return p, nil
	}
	var guides []GuideLine
	snapped := p
	if x := math.Round(p.X/opts.Grid) * opts.Grid; math.Abs(p.X-x) <= opts.Threshold {
		snapped.X = FloatRound(x, 3)
		guides = append(guides, guideForVertical(snapped.X, p.Y))
	}
	if y := math.Round(p.Y/opts.Grid) * opts.Grid; math.Abs(p.Y-y) <= opts.Threshold {
		snapped.Y = FloatRound(y, 3)
		guides = append(guides, guideForHorizontal(snapped.Y, p.X))
	}
	return snapped, guides
}

func guideForVertical(x, y float64) GuideLine {
	ext := math.Max(math.Abs(y), 1) + 1
	return GuideLine{Orientation: "vertical", Kind: "grid", From: Vec{x, -ext}, To: Vec{x, ext}}
}

func guideForHorizontal(y, x float64) GuideLine {
	ext := math.Max(math.Abs(x), 1) + 1
	return GuideLine{Orientation: "horizontal", Kind: "grid", From: Vec{-ext, y}, To: Vec{ext, y}}
}

func round3(v Vec) Vec { return Vec{FloatRound(v.X, 3), FloatRound(v.Y, 3)} }
