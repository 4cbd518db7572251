package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"flowy/app/config"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("hello", "task_id", "t1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["task_id"] != "t1" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "warn", Format: "logfmt"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNewRejectsBadSettings(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(config.LogConfig{Level: "loud"}, &buf); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := New(config.LogConfig{Format: "xml"}, &buf); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
