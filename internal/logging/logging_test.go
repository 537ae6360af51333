package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"Info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("ParseLevel(%q) error = %v, expected ErrUnknownLevel", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestLogger_Filtering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn %d", 1)
	logger.Error("error")

	output := buf.String()
	if strings.Contains(output, "[DEBUG]") || strings.Contains(output, "[INFO]") {
		t.Errorf("expected debug and info to be filtered, got: %s", output)
	}
	if !strings.Contains(output, "[WARN] test: warn 1") {
		t.Errorf("expected formatted warning, got: %s", output)
	}
	if !strings.Contains(output, "[ERROR]") {
		t.Error("expected ERROR in output")
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})

	logger.WithComponent("detect").WithFields(map[string]any{
		"charset": "UTF-8",
		"bytes":   42,
	}).Info("tried")

	if !strings.Contains(buf.String(), "tried {bytes=42, charset=UTF-8, component=detect}") {
		t.Errorf("unexpected field rendering: %s", buf.String())
	}
}

func TestLogger_DerivedSharesSink(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	parent := New(Config{Level: LevelError, Output: &buf1})
	child := parent.WithField("k", "v")

	child.Info("hidden")
	if buf1.Len() != 0 {
		t.Fatal("expected no output at error level")
	}

	parent.SetLevel(LevelInfo)
	parent.SetOutput(&buf2)
	child.Info("visible")
	if !strings.Contains(buf2.String(), "visible {k=v}") {
		t.Errorf("expected child to follow parent settings, got: %s", buf2.String())
	}
	if child.Level() != LevelInfo || !child.Enabled(LevelInfo) {
		t.Error("expected child level to follow parent")
	}
}

func TestLogger_DisableEnable(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf})

	logger.Disable()
	logger.Error("dropped")
	if buf.Len() != 0 {
		t.Error("expected no output while disabled")
	}

	logger.Enable()
	logger.Error("kept")
	if buf.Len() == 0 {
		t.Error("expected output after Enable")
	}
}

func TestNop(t *testing.T) {
	logger := Nop().WithComponent("x")
	logger.Error("nothing")
	if logger.Enabled(LevelError) {
		t.Error("expected Nop logger to be disabled")
	}

	var nilLogger *Logger
	nilLogger.Info("no panic")
}
