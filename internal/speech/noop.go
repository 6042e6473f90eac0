package speech

import (
	"context"
	"log/slog"

	"golang.org/x/text/language"
)

// Compile-time interface check.
var _ Synthesizer = (*NoOp)(nil)

// NoOp is a backend that does nothing. Used when voice is disabled.
type NoOp struct {
	logger *slog.Logger
}

func NewNoOp(logger *slog.Logger) *NoOp {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoOp{logger: logger}
}

func (n *NoOp) Init(context.Context, language.Tag) error {
	return nil
}

func (n *NoOp) Say(_ context.Context, text string) error {
	n.logger.Debug("speech_noop", "text", text)
	return nil
}
