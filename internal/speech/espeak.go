package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/text/language"
)

var _ Synthesizer = (*Espeak)(nil)

// Espeak drives an espeak-compatible binary (espeak-ng, espeak). Each
// utterance is one process fed on stdin; cancelling ctx kills it, which is
// how a flush interrupts playback.
type Espeak struct {
	binary string
	path   string
	voice  string
}

func NewEspeak(binary string) *Espeak {
	if binary == "" {
		binary = "espeak-ng"
	}
	return &Espeak{binary: binary}
}

func (e *Espeak) Init(_ context.Context, locale language.Tag) error {
	path, err := exec.LookPath(e.binary)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBackendMissing, e.binary, err)
	}
	if locale == language.Und {
		return fmt.Errorf("%w: undetermined", ErrUnsupportedLocale)
	}
	e.path = path
	e.voice = strings.ToLower(locale.String())
	return nil
}

func (e *Espeak) Say(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, e.path, "-v", e.voice, "--stdin")
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run %s: %w", e.binary, err)
	}
	return nil
}
