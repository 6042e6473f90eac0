// Package teller ties the joke fetcher, the renderer and the output sinks
// together: one Tell is one request, one outcome and one rendering.
package teller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aryannaik/joke-teller/internal/jokeapi"
	"github.com/aryannaik/joke-teller/internal/notify"
	"github.com/aryannaik/joke-teller/internal/render"
	"github.com/aryannaik/joke-teller/internal/speech"
)

// Fetcher issues a joke request and reports the outcome exactly once.
type Fetcher interface {
	FetchAsync(ctx context.Context, category jokeapi.Category, done func(jokeapi.Outcome))
}

// Result is delivered once per Tell. Stale results were overtaken by a newer
// request and were not routed to any sink.
type Result struct {
	Category   jokeapi.Category
	Generation uint64
	Outcome    jokeapi.Outcome
	Rendering  render.Rendering
	Stale      bool
}

type Teller struct {
	fetcher   Fetcher
	speaker   speech.Speaker
	notifier  notify.Notifier
	logger    *slog.Logger
	onDisplay func(text string)

	mu        sync.Mutex
	selected  jokeapi.Category
	text      string
	issued    uint64
	completed uint64

	// routeMu keeps label, speech and notification updates of one result
	// together.
	routeMu sync.Mutex
}

type Option func(*Teller)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Teller) { t.logger = logger }
}

// WithOnDisplay registers a callback fired whenever the label text changes.
func WithOnDisplay(fn func(text string)) Option {
	return func(t *Teller) { t.onDisplay = fn }
}

func New(fetcher Fetcher, speaker speech.Speaker, notifier notify.Notifier, opts ...Option) *Teller {
	t := &Teller{
		fetcher:  fetcher,
		speaker:  speaker,
		notifier: notifier,
		selected: jokeapi.DefaultCategory,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

func (t *Teller) Select(category jokeapi.Category) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", jokeapi.ErrUnknownCategory, string(category))
	}
	t.mu.Lock()
	t.selected = category
	t.mu.Unlock()
	return nil
}

func (t *Teller) Selected() jokeapi.Category {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected
}

// Text returns the current label text: the last joke shown, or "".
func (t *Teller) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// Tell requests a joke for the selected category without blocking. The
// returned channel receives exactly one Result. Overlapping calls are
// allowed.
func (t *Teller) Tell(ctx context.Context) <-chan Result {
	t.mu.Lock()
	t.issued++
	gen := t.issued
	category := t.selected
	t.mu.Unlock()

	return t.tell(ctx, gen, category)
}

// TellCategory selects category and tells a joke for it in one step, so a
// concurrent Select cannot change which category is requested.
func (t *Teller) TellCategory(ctx context.Context, category jokeapi.Category) (<-chan Result, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", jokeapi.ErrUnknownCategory, string(category))
	}

	t.mu.Lock()
	t.selected = category
	t.issued++
	gen := t.issued
	t.mu.Unlock()

	return t.tell(ctx, gen, category), nil
}

func (t *Teller) tell(ctx context.Context, gen uint64, category jokeapi.Category) <-chan Result {
	results := make(chan Result, 1)
	t.logger.Debug("joke_requested", "category", category, "generation", gen)
	t.fetcher.FetchAsync(ctx, category, func(outcome jokeapi.Outcome) {
		results <- t.complete(gen, category, outcome)
	})
	return results
}

func (t *Teller) complete(gen uint64, category jokeapi.Category, outcome jokeapi.Outcome) Result {
	res := Result{
		Category:   category,
		Generation: gen,
		Outcome:    outcome,
		Rendering:  render.Render(outcome),
	}

	t.routeMu.Lock()
	defer t.routeMu.Unlock()

	t.mu.Lock()
	if gen < t.completed {
		t.mu.Unlock()
		res.Stale = true
		t.logger.Debug("joke_stale", "category", category, "generation", gen)
		return res
	}
	t.completed = gen
	if res.Rendering.Sink == render.SinkDisplay {
		t.text = res.Rendering.Text
	}
	t.mu.Unlock()

	r := res.Rendering
	switch r.Sink {
	case render.SinkDisplay:
		t.logger.Info("joke_told", "category", category, "text", r.Text)
		if t.onDisplay != nil {
			t.onDisplay(r.Text)
		}
		t.speaker.Speak(r.Speech, r.Mode)
	default:
		t.logger.Warn("joke_failed",
			"category", category,
			"kind", outcome.Kind.String(),
			"status", outcome.StatusCode,
			"error", outcome.Err,
		)
		t.speaker.Speak(r.Speech, r.Mode)
		t.notifier.Show(r.Text)
	}
	return res
}
