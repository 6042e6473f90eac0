// Package notify shows short-lived messages to the user.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Notifier shows a transient message. Show must not block for long.
type Notifier interface {
	Show(message string)
}

// Func adapts a function to Notifier.
type Func func(message string)

func (f Func) Show(message string) { f(message) }

// Writer prints each message as its own line, like a toast in a terminal.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Show(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "! %s\n", message)
}

// Log reports messages through slog at warn level.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (n *Log) Show(message string) {
	n.logger.Warn("notification", "message", message)
}

// Multi fans a message out to several notifiers in order.
type Multi []Notifier

func (m Multi) Show(message string) {
	for _, n := range m {
		n.Show(message)
	}
}
