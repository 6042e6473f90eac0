// Package speech queues utterances onto a text-to-speech backend.
//
// An Engine owns a single queue. Append mode speaks after whatever is
// already queued; Flush mode drops the queue and interrupts the current
// utterance first.
package speech

import (
	"context"
	"errors"

	"golang.org/x/text/language"
)

// Mode selects how an utterance joins the queue.
type Mode int

const (
	Append Mode = iota
	Flush
)

func (m Mode) String() string {
	if m == Flush {
		return "flush"
	}
	return "append"
}

// Speaker accepts utterances. Implementations must not block on playback.
type Speaker interface {
	Speak(text string, mode Mode)
}

// Synthesizer is a text-to-speech backend driven by an Engine.
// Say must return promptly once ctx is cancelled.
type Synthesizer interface {
	Init(ctx context.Context, locale language.Tag) error
	Say(ctx context.Context, text string) error
}

// InitWarning is shown to the user when the backend cannot be initialised.
const InitWarning = "Your language is either not downloaded or supported by text-to-speech. Consider changing your language in settings"

var (
	ErrUnsupportedLocale = errors.New("locale not supported by text-to-speech")
	ErrBackendMissing    = errors.New("text-to-speech backend not available")
)
