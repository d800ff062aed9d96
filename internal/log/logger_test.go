/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitWritesJSONFileWithScope(t *testing.T) {
	fpath := filepath.Join(os.TempDir(), fmt.Sprintf("gav_log_%d.json", time.Now().UnixNano()))
	t.Cleanup(func() { _ = os.Remove(fpath) })

	Init(Options{Level: "debug", Format: "json", File: fpath})
	t.Cleanup(func() { Init(Options{}) })

	l := WithOperation(WithComponent("visualizer"), "normalize")
	ctx := WithScope(context.Background(), Scope{Vector: "B", Norm: "linf"})
	l.InfoContext(ctx, "commit", slog.String("action", "normalize B"))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(strings.NewReader(string(b)))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines in %s", fpath)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	for k, want := range map[string]string{
		"app":       "gavisualizer",
		"component": "visualizer",
		"op":        "normalize",
		"msg":       "commit",
		"action":    "normalize B",
		"vector":    "B",
		"norm":      "linf",
	} {
		if m[k] != want {
			t.Fatalf("%s = %v, want %q (line %s)", k, m[k], want, last)
		}
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if _, ok := m["gesture"]; ok {
		t.Fatalf("gesture must be omitted when unset")
	}
}

func TestLBeforeInit(t *testing.T) {
	defaultMu.Lock()
	saved := defaultLogger
	defaultLogger = nil
	defaultMu.Unlock()
	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLogger = saved
		defaultMu.Unlock()
	})
	l := L()
	if l == nil {
		t.Fatalf("L() returned nil")
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("default logger should not log debug")
	}
	if !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("default logger should log info")
	}
}
