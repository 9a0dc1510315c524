package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// captureLogOutput redirects the logger to a buffer for the duration of f.
func captureLogOutput(level Level, format Format, f func()) string {
	var buf bytes.Buffer
	InitLoggerTo(&buf, level, format)
	f()
	InitLogger(LevelInfo, FormatText)
	return buf.String()
}

// decodeLines parses JSON log lines.
func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, m)
	}
	return entries
}

func TestInitLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  []string
	}{
		{"debug", LevelDebug, []string{"d", "i", "w", "e"}},
		{"info", LevelInfo, []string{"i", "w", "e"}},
		{"warn", LevelWarn, []string{"w", "e"}},
		{"error", LevelError, []string{"e"}},
		{"unknown falls back to info", Level(99), []string{"i", "w", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureLogOutput(tt.level, FormatJSON, func() {
				ctx := context.Background()
				DebugContext(ctx, "d")
				InfoContext(ctx, "i")
				Warn("w")
				ErrorContext(ctx, "e")
			})
			entries := decodeLines(t, out)
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d: %s", len(entries), len(tt.want), out)
			}
			for i, e := range entries {
				if e["msg"] != tt.want[i] {
					t.Errorf("entry %d msg = %v, want %s", i, e["msg"], tt.want[i])
				}
			}
		})
	}
}

func TestInitLoggerTimestamp(t *testing.T) {
	out := captureLogOutput(LevelInfo, FormatJSON, func() {
		InfoContext(context.Background(), "stamp")
	})
	entries := decodeLines(t, out)
	ts, ok := entries[0][slog.TimeKey].(string)
	if !ok {
		t.Fatalf("missing time key: %s", out)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestTextFormat(t *testing.T) {
	out := captureLogOutput(LevelInfo, FormatText, func() {
		InfoContext(context.Background(), "hello", "key", "value")
	})
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"Text", FormatText, false},
		{"", FormatText, false},
		{"yaml", FormatText, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRunID(t *testing.T) {
	id := NewRunID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewRunID() = %q is not a UUID: %v", id, err)
	}
	if NewRunID() == id {
		t.Error("NewRunID returned the same ID twice")
	}

	ctx := context.Background()
	if got := GetRunID(ctx); got != "" {
		t.Errorf("GetRunID(empty) = %q", got)
	}
	ctx = WithRunID(ctx, id)
	if got := GetRunID(ctx); got != id {
		t.Errorf("GetRunID = %q, want %q", got, id)
	}

	out := captureLogOutput(LevelInfo, FormatJSON, func() {
		InfoContext(ctx, "with id")
		InfoContext(context.Background(), "without id")
	})
	entries := decodeLines(t, out)
	if entries[0]["run_id"] != id {
		t.Errorf("run_id = %v, want %s", entries[0]["run_id"], id)
	}
	if _, ok := entries[1]["run_id"]; ok {
		t.Error("run_id should be absent without context")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := WithRunID(context.Background(), "r1")
	out := captureLogOutput(LevelDebug, FormatJSON, func() {
		DebugContext(ctx, "d")
		WarnContext(ctx, "w")
		ErrorContext(ctx, "e")
	})
	entries := decodeLines(t, out)
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	for _, e := range entries {
		if e["run_id"] != "r1" {
			t.Errorf("entry %v lacks run_id", e)
		}
	}
}

func TestStageHelpers(t *testing.T) {
	ctx := WithRunID(context.Background(), "r2")
	out := captureLogOutput(LevelDebug, FormatJSON, func() {
		StageStart(ctx, "align", "witnesses", 3)
		StageDone(ctx, "align", 1500*time.Millisecond)
		OutputWritten(ctx, "csv", "out.csv", 42, "sha256", "abc")
		EngineOutput(ctx, "stderr", "warning: slow")
		EngineOutput(ctx, "stdout", "  \n")
	})
	entries := decodeLines(t, out)
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4: %s", len(entries), out)
	}

	if entries[0]["msg"] != "stage_start" || entries[0]["stage"] != "align" || entries[0]["witnesses"] != float64(3) {
		t.Errorf("stage_start entry = %v", entries[0])
	}
	if entries[1]["msg"] != "stage_done" || entries[1]["duration_ms"] != float64(1500) {
		t.Errorf("stage_done entry = %v", entries[1])
	}
	if entries[2]["msg"] != "output_written" || entries[2]["bytes"] != float64(42) || entries[2]["sha256"] != "abc" {
		t.Errorf("output_written entry = %v", entries[2])
	}
	if entries[3]["msg"] != "engine_output" || entries[3]["stream"] != "stderr" {
		t.Errorf("engine_output entry = %v", entries[3])
	}
}

func TestGetLogger(t *testing.T) {
	if GetLogger() == nil {
		t.Fatal("GetLogger returned nil")
	}
}
