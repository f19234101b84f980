package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, false)
	logger.Debug("hidden")
	logger.Info("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered at info level, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("expected info message with attributes, got %q", out)
	}

	buf.Reset()
	New(&buf, true).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug logger should emit debug messages, got %q", buf.String())
	}
}

func TestWithOperation(t *testing.T) {
	var buf bytes.Buffer
	WithOperation(New(&buf, false), "calendar.insert").Info("done")
	if !strings.Contains(buf.String(), "operation=calendar.insert") {
		t.Errorf("expected operation attribute, got %q", buf.String())
	}
}

func TestWithService(t *testing.T) {
	var buf bytes.Buffer
	WithService(New(&buf, false), "oauth2").Info("refreshed")
	if !strings.Contains(buf.String(), "service=oauth2") {
		t.Errorf("expected service attribute, got %q", buf.String())
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{"operation", Operation("oauth.refresh"), KeyOperation, "oauth.refresh"},
		{"calendar", Calendar("primary"), KeyCalendar, "primary"},
		{"path", Path("/tmp/token.json"), KeyPath, "/tmp/token.json"},
		{"status", Status(StatusSuccess), KeyStatus, StatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("test error"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "test error" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "test error")
	}

	// Empty Group has empty key
	attr = Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty string (empty group)", attr.Key)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{"", "<empty>"},
		{"abc123", "[token:6 chars]"},
		{"ya29.a_very_long_token", "[token:22 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := SanitizeToken(tt.token)
			if result != tt.expected {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, result, tt.expected)
			}
		})
	}
}
