package speech

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/text/language"
)

var _ Synthesizer = (*Console)(nil)

// Console "speaks" by writing each utterance to w. Used on machines without
// a speech binary and in headless runs.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	locale language.Tag
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Init(_ context.Context, locale language.Tag) error {
	c.mu.Lock()
	c.locale = locale
	c.mu.Unlock()
	return nil
}

func (c *Console) Say(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "[say %s] %s\n", c.locale, text); err != nil {
		return fmt.Errorf("write utterance: %w", err)
	}
	return nil
}
