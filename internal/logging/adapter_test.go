package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewSlogAdapter_WithNil(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter == nil {
		t.Fatal("NewSlogAdapter returned nil")
	}
	if adapter.logger == nil {
		t.Error("adapter.logger should not be nil when created with nil")
	}
}

func TestSlogAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(New(&buf, true))

	adapter.Debug("debug message", "key", "d")
	adapter.Info("info message", "key", "i")
	adapter.Warn("warn message", "key", "w")
	adapter.Error("error message", "key", "e")

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "level=INFO", "level=WARN", "level=ERROR", "key=e"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
}

func TestSlogAdapter_Logger(t *testing.T) {
	logger := slog.Default()
	adapter := NewSlogAdapter(logger)
	if adapter.Logger() != logger {
		t.Error("Logger() should return the underlying logger")
	}
}

func TestOrDefault(t *testing.T) {
	if OrDefault(nil) == nil {
		t.Fatal("OrDefault(nil) returned nil")
	}

	adapter := NewSlogAdapter(nil)
	if OrDefault(adapter) != Logger(adapter) {
		t.Error("OrDefault should return the given logger unchanged")
	}
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = (*SlogAdapter)(nil)
}
