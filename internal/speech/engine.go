package speech

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/language"
)

// Status is the initialisation state of an Engine.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "pending"
	}
}

var _ Speaker = (*Engine)(nil)

// Engine is the process-wide speech handle. It is safe for concurrent use.
// Utterances spoken before Start completes are buffered; if initialisation
// fails they are dropped and later calls are no-ops.
type Engine struct {
	synth  Synthesizer
	logger *slog.Logger

	mu        sync.Mutex
	status    Status
	queue     []string
	speaking  bool
	cancelCur context.CancelFunc
	started   bool
	closed    bool
	stop      context.CancelFunc

	wake chan struct{}
	done chan struct{}
}

func NewEngine(synth Synthesizer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		synth:  synth,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start initialises the backend in the background and then plays queued
// utterances until ctx is done or Close is called. onInit is called exactly
// once with the initialisation result. Only the first call has any effect.
func (e *Engine) Start(ctx context.Context, locale language.Tag, onInit func(error)) {
	e.mu.Lock()
	if e.started || e.closed {
		e.mu.Unlock()
		return
	}
	e.started = true
	ctx, e.stop = context.WithCancel(ctx)
	e.mu.Unlock()

	go e.run(ctx, locale, onInit)
}

func (e *Engine) run(ctx context.Context, locale language.Tag, onInit func(error)) {
	defer close(e.done)

	err := e.synth.Init(ctx, locale)

	e.mu.Lock()
	if err != nil {
		e.status = StatusUnavailable
		e.queue = nil
	} else {
		e.status = StatusReady
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("speech_init_failed", "locale", locale.String(), "error", err)
	} else {
		e.logger.Info("speech_ready", "locale", locale.String())
	}
	if onInit != nil {
		onInit(err)
	}
	if err != nil {
		return
	}

	for {
		text, uctx, ok := e.next(ctx)
		if !ok {
			return
		}
		if err := e.synth.Say(uctx, text); err != nil && uctx.Err() == nil {
			e.logger.Warn("speech_failed", "error", err)
		}
		e.finish()
	}
}

func (e *Engine) next(ctx context.Context) (string, context.Context, bool) {
	for {
		e.mu.Lock()
		if len(e.queue) > 0 {
			text := e.queue[0]
			e.queue = e.queue[1:]
			uctx, cancel := context.WithCancel(ctx)
			e.cancelCur = cancel
			e.speaking = true
			e.mu.Unlock()
			return text, uctx, true
		}
		e.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", nil, false
		case <-e.wake:
		}
	}
}

func (e *Engine) finish() {
	e.mu.Lock()
	if e.cancelCur != nil {
		e.cancelCur()
		e.cancelCur = nil
	}
	e.speaking = false
	e.mu.Unlock()
}

// Speak queues text. Flush drops everything queued and interrupts the
// current utterance before queueing.
func (e *Engine) Speak(text string, mode Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.status == StatusUnavailable {
		return
	}

	if mode == Flush {
		e.queue = nil
		if e.cancelCur != nil {
			e.cancelCur()
			e.cancelCur = nil
		}
	}
	e.queue = append(e.queue, text)

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Pending returns the number of utterances waiting behind the current one.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Drain waits until nothing is queued or playing, or until the engine turns
// out to be unusable.
func (e *Engine) Drain(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		e.mu.Lock()
		idle := e.status == StatusReady && len(e.queue) == 0 && !e.speaking
		dead := e.status == StatusUnavailable || e.closed
		e.mu.Unlock()
		if idle || dead {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close interrupts playback, drops the queue and stops the worker.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.queue = nil
	if e.cancelCur != nil {
		e.cancelCur()
		e.cancelCur = nil
	}
	started := e.started
	if e.stop != nil {
		e.stop()
	}
	e.mu.Unlock()

	if started {
		<-e.done
	}
	return nil
}
