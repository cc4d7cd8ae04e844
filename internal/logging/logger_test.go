package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"transition/internal/logging"
)

func TestNewConsoleLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "engine.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "detect")
	logger.Info("batch run finished", logging.Int("detections_emitted", 3))
	logger.Debug("should be filtered")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "[detect]") {
		t.Fatalf("log output missing component prefix: %q", out)
	}
	if !strings.Contains(out, "detections_emitted=3") {
		t.Fatalf("log output missing attribute: %q", out)
	}
	if strings.Contains(out, "should be filtered") {
		t.Fatalf("debug line not filtered at info level: %q", out)
	}
}

func TestNewJSONLogger(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "engine.jsonl")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("indexed", logging.Int("contracts", 10))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &line); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if line["msg"] != "indexed" {
		t.Fatalf("msg = %v, want indexed", line["msg"])
	}
	if line["level"] != "info" {
		t.Fatalf("level = %v, want info", line["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWithContextAddsRunFields(t *testing.T) {
	ctx := context.Background()
	ctx = logging.WithRunID(ctx, "run-1")
	ctx = logging.WithPhase(ctx, "scoring")
	ctx = logging.WithAwardID(ctx, "A42")

	fields := logging.ContextFields(ctx)
	got := map[string]string{}
	for _, f := range fields {
		got[f.Key] = f.Value.String()
	}
	want := map[string]string{
		logging.FieldRunID:   "run-1",
		logging.FieldPhase:   "scoring",
		logging.FieldAwardID: "A42",
	}
	for key, value := range want {
		if got[key] != value {
			t.Fatalf("field %s = %q, want %q (all: %v)", key, got[key], value, got)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled at every level")
	}
}
