package logging

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerWritesJSONWithAttributes(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "debug")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	child := logger.WithDocument("/papers/x.md").WithPhase("ANALYZING")
	child.Info("question answered", "question", "method_design")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "lectern.log"))
	if err != nil {
		t.Fatalf("opening log: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("log file empty")
	}
	var entry map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
		t.Fatalf("log line not JSON: %v", err)
	}

	checks := map[string]string{
		"msg":      "question answered",
		"document": "/papers/x.md",
		"phase":    "ANALYZING",
		"question": "method_design",
	}
	for key, want := range checks {
		if got, _ := entry[key].(string); got != want {
			t.Errorf("entry[%q] = %v, want %q", key, entry[key], want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "error")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Error("kept")
	logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, "lectern.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 1 {
		t.Errorf("log has %d lines, want 1:\n%s", lines, data)
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	logger := NopLogger()
	// Must not panic or write anywhere.
	logger.Info("discarded", "k", "v")
	logger.WithDocument("/x").Error("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
