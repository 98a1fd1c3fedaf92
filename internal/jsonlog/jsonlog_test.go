package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	t.Run("below minimum level is dropped", func(t *testing.T) {
		buf.Reset()
		l := New(&buf, LevelError)
		l.PrintInfo("should not appear", nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output; got %q", buf.String())
		}
	})

	t.Run("info entry is well-formed JSON", func(t *testing.T) {
		buf.Reset()
		l := New(&buf, LevelInfo)
		l.PrintInfo("starting server", map[string]string{"addr": ":4000"})
		var entry struct {
			Level      string            `json:"level"`
			Message    string            `json:"message"`
			Properties map[string]string `json:"properties"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if entry.Level != "INFO" {
			t.Errorf("expected level INFO; got %s", entry.Level)
		}
		if entry.Message != "starting server" {
			t.Errorf("unexpected message %q", entry.Message)
		}
		if entry.Properties["addr"] != ":4000" {
			t.Errorf("expected addr property; got %v", entry.Properties)
		}
	})

	t.Run("error entry includes a stack trace", func(t *testing.T) {
		buf.Reset()
		l := New(&buf, LevelInfo)
		l.PrintError(errors.New("boom"), nil)
		var entry struct {
			Level string `json:"level"`
			Trace string `json:"trace"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if entry.Level != "ERROR" {
			t.Errorf("expected level ERROR; got %s", entry.Level)
		}
		if entry.Trace == "" {
			t.Error("expected a stack trace on ERROR entries")
		}
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"Error":   LevelError,
		"fatal":   LevelFatal,
		"off":     LevelOff,
		"unknown": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}
