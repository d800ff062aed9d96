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
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := Default()
	s.Visibility.ProdCAB = true
	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := Validate(data); err != nil {
		t.Fatalf("encoded state fails validation: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != s {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, s)
	}
}

func TestDecodeLegacyProdFlag(t *testing.T) {
	doc := `{"vector":{"A":{"x":1,"y":2},"B":{"x":0,"y":1},"C":{"x":-1,"y":0}},
	"visibility":{"a":true,"b":true,"c":false,"brot":false,"dot":true,"wedge":false,"prod":true}}`
	got, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Visibility.ProdABC || !got.Visibility.ProdCAB {
		t.Fatalf("prod should enable both product flags: %+v", got.Visibility)
	}
	if got.Vector.A.X != 1 || got.Vector.C.X != -1 {
		t.Fatalf("vectors not decoded: %+v", got.Vector)
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":       `{`,
		"missing vector": `{"visibility":{"a":true,"b":true,"c":true,"brot":true,"dot":true,"wedge":true}}`,
		"missing C":      `{"vector":{"A":{"x":1,"y":2},"B":{"x":0,"y":1}},"visibility":{"a":true,"b":true,"c":true,"brot":true,"dot":true,"wedge":true}}`,
		"string coord":   `{"vector":{"A":{"x":"1","y":2},"B":{"x":0,"y":1},"C":{"x":0,"y":0}},"visibility":{"a":true,"b":true,"c":true,"brot":true,"dot":true,"wedge":true}}`,
		"number flag":    `{"vector":{"A":{"x":1,"y":2},"B":{"x":0,"y":1},"C":{"x":0,"y":0}},"visibility":{"a":1,"b":true,"c":true,"brot":true,"dot":true,"wedge":true}}`,
		"missing wedge":  `{"vector":{"A":{"x":1,"y":2},"B":{"x":0,"y":1},"C":{"x":0,"y":0}},"visibility":{"a":true,"b":true,"c":true,"brot":true,"dot":true}}`,
	}
	for name, doc := range cases {
		if _, err := Decode([]byte(doc)); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("%s: expected ErrInvalidState, got %v", name, err)
		}
	}
}

func TestSchemaJSONIsCopy(t *testing.T) {
	b := SchemaJSON()
	if !strings.Contains(string(b), "VisualizerState") {
		t.Fatalf("schema content unexpected")
	}
	b[0] = 'X'
	if SchemaJSON()[0] == 'X' {
		t.Fatalf("SchemaJSON must return a copy")
	}
}
