/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package state

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// ErrInvalidState wraps every rejection of externally supplied state.
var ErrInvalidState = errors.New("invalid visualizer state")

//go:embed state.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// SchemaJSON returns the JSON Schema used by Validate.
func SchemaJSON() []byte { return append([]byte(nil), schemaJSON...) }

// Validate checks that data has the shape of a VisualizerState document.
// Extra properties are tolerated; missing or mistyped ones are not.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile state schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidState, strings.Join(msgs, "; "))
	}
	return nil
}

// wireVisibility mirrors Visibility with optional product flags so that
// documents carrying only the older combined "prod" flag still load.
type wireVisibility struct {
	A       bool  `json:"a"`
	B       bool  `json:"b"`
	C       bool  `json:"c"`
	Brot    bool  `json:"brot"`
	Dot     bool  `json:"dot"`
	Wedge   bool  `json:"wedge"`
	Prod    *bool `json:"prod,omitempty"`
	ProdABC *bool `json:"prodABC,omitempty"`
	ProdCAB *bool `json:"prodCAB,omitempty"`
}

type wireState struct {
	Vector     VectorState    `json:"vector"`
	Visibility wireVisibility `json:"visibility"`
}

// Decode validates data and converts it to a VisualizerState.
func Decode(data []byte) (VisualizerState, error) {
	if err := Validate(data); err != nil {
		return VisualizerState{}, err
	}
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return VisualizerState{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	vis := Visibility{
		A: w.Visibility.A, B: w.Visibility.B, C: w.Visibility.C,
		Brot: w.Visibility.Brot, Dot: w.Visibility.Dot, Wedge: w.Visibility.Wedge,
	}
	if w.Visibility.Prod != nil {
		vis.ProdABC = *w.Visibility.Prod
		vis.ProdCAB = *w.Visibility.Prod
	}
	if w.Visibility.ProdABC != nil {
		vis.ProdABC = *w.Visibility.ProdABC
	}
	if w.Visibility.ProdCAB != nil {
		vis.ProdCAB = *w.Visibility.ProdCAB
	}
	return VisualizerState{Vector: w.Vector, Visibility: vis}, nil
}

// Encode renders s as indented JSON accepted by Decode.
func Encode(s VisualizerState) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return append(data, '\n'), nil
}
