package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogger_New(t *testing.T) {
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo})
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Format: LogFormatJSON,
		Output: &buf,
	})

	logger.Info("calibration done", map[string]interface{}{
		"points": 100,
		"k":      15,
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "calibration done" {
		t.Errorf("Expected message field, got %v", entry["message"])
	}
	if entry["points"] != float64(100) {
		t.Errorf("Expected points=100, got %v", entry["points"])
	}
	if entry["level"] != "info" {
		t.Errorf("Expected level=info, got %v", entry["level"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelWarn,
		Format: LogFormatJSON,
		Output: &buf,
	})

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")
	logger.Error("also visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Messages below warn should be filtered")
	}
	if !strings.Contains(out, "visible") {
		t.Error("Warn and error messages should pass")
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Format: LogFormatJSON,
		Output: &buf,
	})

	logger.WithFields(map[string]interface{}{"engine": "bh"}).
		WithField("dim", 2).
		Info("step")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if entry["engine"] != "bh" {
		t.Errorf("Expected engine=bh, got %v", entry["engine"])
	}
	if entry["dim"] != float64(2) {
		t.Errorf("Expected dim=2, got %v", entry["dim"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
