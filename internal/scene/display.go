/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package scene

import (
	"sync"

	"gavisualizer/internal/state"
)

// Display consumes computed frames and visibility flags. Implementations are
// called synchronously by the coordinator and must not call back into it.
type Display interface {
	// Update is called after every change of the vectors.
	Update(f Frame)
	// SetVisibility is called after every change of the visibility flags.
	SetVisibility(v state.Visibility)
}

// NopDisplay discards everything.
type NopDisplay struct{}

func (NopDisplay) Update(Frame)                  {}
func (NopDisplay) SetVisibility(state.Visibility) {}

// Recorder keeps the last frame and visibility it was handed and counts calls.
// Useful for headless front ends and tests.
type Recorder struct {
	mu         sync.Mutex
	frame      Frame
	visibility state.Visibility
	updates    int
	visUpdates int
}

func (r *Recorder) Update(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = f
	r.updates++
}

func (r *Recorder) SetVisibility(v state.Visibility) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visibility = v
	r.visUpdates++
}

// Last returns the most recent frame and visibility.
func (r *Recorder) Last() (Frame, state.Visibility) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame, r.visibility
}

// Counts returns how many frame and visibility updates were received.
func (r *Recorder) Counts() (updates, visibility int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates, r.visUpdates
}
