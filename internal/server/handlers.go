package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/aryannaik/joke-teller/internal/jokeapi"
	"github.com/aryannaik/joke-teller/internal/speech"
	"github.com/aryannaik/joke-teller/internal/teller"
)

// Teller is the part of teller.Teller the HTTP API drives.
type Teller interface {
	Selected() jokeapi.Category
	Text() string
	Tell(ctx context.Context) <-chan teller.Result
	TellCategory(ctx context.Context, category jokeapi.Category) (<-chan teller.Result, error)
}

// SpeechStatus reports the state of the speech engine.
type SpeechStatus interface {
	Status() speech.Status
	Pending() int
}

type Handlers struct {
	teller Teller
	voice  SpeechStatus
	logger *slog.Logger
}

func NewHandlers(t Teller, voice SpeechStatus, logger *slog.Logger) *Handlers {
	return &Handlers{
		teller: t,
		voice:  voice,
		logger: logger,
	}
}

type categoriesResponse struct {
	Categories []jokeapi.Category `json:"categories"`
	Selected   jokeapi.Category   `json:"selected"`
}

func (h *Handlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoriesResponse{
		Categories: jokeapi.Categories(),
		Selected:   h.teller.Selected(),
	})
}

type jokeResponse struct {
	Category string `json:"category"`
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Speech   string `json:"speech"`
	Sink     string `json:"sink"`
	Status   int    `json:"status,omitempty"`
	Stale    bool   `json:"stale"`
}

func (h *Handlers) HandleJoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	// The joke is spoken even if the caller hangs up.
	ctx := context.WithoutCancel(r.Context())

	var results <-chan teller.Result
	if name := r.URL.Query().Get("category"); name != "" {
		category, err := jokeapi.ParseCategory(name)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		results, err = h.teller.TellCategory(ctx, category)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	} else {
		results = h.teller.Tell(ctx)
	}

	select {
	case res := <-results:
		writeJSON(w, http.StatusOK, jokeResponse{
			Category: string(res.Category),
			Kind:     res.Outcome.Kind.String(),
			Text:     res.Rendering.Text,
			Speech:   res.Rendering.Speech,
			Sink:     res.Rendering.Sink.String(),
			Status:   res.Outcome.StatusCode,
			Stale:    res.Stale,
		})
	case <-r.Context().Done():
		h.logger.Debug("joke_request_abandoned", "error", r.Context().Err())
	}
}

type statusResponse struct {
	Selected jokeapi.Category `json:"selected"`
	Text     string           `json:"text"`
	Speech   string           `json:"speech"`
	Queued   int              `json:"queued"`
}

func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Selected: h.teller.Selected(),
		Text:     h.teller.Text(),
		Speech:   h.voice.Status().String(),
		Queued:   h.voice.Pending(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
