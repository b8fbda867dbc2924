package shlog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPrintln(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)

	Println("hello", "world")
	if got, want := buf.String(), "hello world\n"; got != want {
		t.Errorf("Println() wrote %q, want %q", got, want)
	}
}

func TestPrintf(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)

	Printf("count: %d", 3)
	if got, want := buf.String(), "count: 3"; got != want {
		t.Errorf("Printf() wrote %q, want %q", got, want)
	}
}

func TestLog(t *testing.T) {
	tests := []struct {
		name     string
		level    slog.Level
		contains string
	}{
		{"debug", slog.LevelDebug, "DEBUG"},
		{"info", slog.LevelInfo, "INFO"},
		{"warn", slog.LevelWarn, "WARN"},
		{"error", slog.LevelError, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			SetOutput(buf)

			Log(tt.level, "message")
			out := buf.String()
			if !strings.Contains(out, tt.contains) || !strings.Contains(out, "message") {
				t.Errorf("Log() wrote %q, want it to contain %q and %q", out, tt.contains, "message")
			}
		})
	}
}

func TestLeveledHelpers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(args ...interface{})
		want string
	}{
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			SetOutput(buf)

			tt.fn("boom")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("%s() wrote %q, want it to contain %q", tt.name, buf.String(), tt.want)
			}
		})
	}
}
