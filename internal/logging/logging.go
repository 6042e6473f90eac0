package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aryannaik/joke-teller/internal/config"
)

const logFileName = "joke-teller.log"

// NewLogger builds the process logger and installs it as the slog default.
//
// The terminal gets a compact coloured tint stream on stderr, kept off stdout
// so it does not interleave with the picker. When a log dir is configured a
// second JSON stream with timestamps and source positions goes to a rotated
// file. The returned closer releases that file.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	return newLogger(os.Stderr, cfg)
}

func newLogger(terminal io.Writer, cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.Level)
	console := tint.NewHandler(terminal, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})

	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		logger := slog.New(console)
		slog.SetDefault(logger)
		return logger, io.NopCloser(nil), nil
	}

	file, err := openRotated(dir, cfg)
	if err != nil {
		return nil, nil, err
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})

	logger := slog.New(fanout{console, fileHandler})
	slog.SetDefault(logger)
	logger.Info("file_logging_enabled", "path", file.Filename)
	return logger, file, nil
}

func openRotated(dir string, cfg config.LoggingConfig) (*lumberjack.Logger, error) {
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, fmt.Errorf("log rotation needs positive limits: size_mb=%d backups=%d age_days=%d",
			cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}, nil
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// ParseLevel maps a level name to slog.Level. Anything unrecognised is info.
func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		if strings.EqualFold(strings.TrimSpace(level), "warning") {
			return slog.LevelWarn
		}
		return slog.LevelInfo
	}
	return l
}
