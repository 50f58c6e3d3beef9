package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"  INFO ": slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn"}, &buf)

	log.Info("quiet")
	log.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatal("info line emitted at warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Fatal("warn line missing")
	}
}

func TestNewWritesRotatedFileCopy(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "shell.log")
	log := New(Config{File: file}, &buf)

	log.Info("hello", "pid", 42)

	if !strings.Contains(buf.String(), "hello") {
		t.Fatal("primary writer missed the record")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatal("file copy missed the record")
	}
}

func TestColorHandlerPrefixesLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Color: true}, &buf)

	log.Error("boom")

	if !strings.Contains(buf.String(), "\\x1b[31m") {
		t.Fatalf("expected ANSI color escape in %q", buf.String())
	}
}
