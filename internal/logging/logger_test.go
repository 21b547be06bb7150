package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithFormat_JSONRenamesError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithFormat(&buf, slog.LevelInfo, "json")
	logger.Debug("hidden")
	logger.Warn("flush failed", "error", errors.New("disk full"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["err"] != "disk full" {
		t.Errorf("expected err key, got %v", rec)
	}
}

func TestNewWithFormat_Text(t *testing.T) {
	var buf bytes.Buffer
	NewWithFormat(&buf, slog.LevelDebug, "text").Debug("phase transition", "to", "completed")
	if !strings.Contains(buf.String(), "to=completed") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
