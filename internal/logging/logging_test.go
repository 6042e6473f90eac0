package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aryannaik/joke-teller/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}
}

func TestNewLoggerWritesRotatedFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	var terminal bytes.Buffer
	logger, closer, err := newLogger(&terminal, config.LoggingConfig{
		Level:      "debug",
		Dir:        dir,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.With("component", "test").Debug("hello_file", "n", 1)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	file := string(data)
	for _, want := range []string{`"msg":"hello_file"`, `"component":"test"`, `"source":`} {
		if !strings.Contains(file, want) {
			t.Fatalf("expected %s in file log, got %s", want, file)
		}
	}
	if !strings.Contains(terminal.String(), "hello_file") {
		t.Fatalf("expected terminal log, got %q", terminal.String())
	}
	if strings.Contains(terminal.String(), `"msg"`) {
		t.Fatalf("terminal stream should not be JSON: %q", terminal.String())
	}
}

func TestNewLoggerRejectsBadRotation(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, _, err := NewLogger(config.LoggingConfig{Dir: t.TempDir()})
	if err == nil {
		t.Fatalf("expected error for zero rotation limits")
	}
}

func TestNewLoggerTerminalOnlyRespectsLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var terminal bytes.Buffer
	logger, closer, err := newLogger(&terminal, config.LoggingConfig{Level: "warn"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closer.Close()

	logger.Info("quiet")
	logger.Warn("loud")
	out := terminal.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Fatalf("unexpected terminal output %q", out)
	}
	if slog.Default() != logger {
		t.Fatalf("expected logger installed as default")
	}
}
