package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/aryannaik/joke-teller/internal/jokeapi"
	"github.com/aryannaik/joke-teller/internal/notify"
	"github.com/aryannaik/joke-teller/internal/speech"
	"github.com/aryannaik/joke-teller/internal/teller"
)

// outcomeFetcher answers every request immediately with a fixed outcome.
type outcomeFetcher struct {
	outcome jokeapi.Outcome
}

func (f outcomeFetcher) FetchAsync(_ context.Context, category jokeapi.Category, done func(jokeapi.Outcome)) {
	out := f.outcome
	out.Category = category
	go done(out)
}

type fakeVoice struct{}

func (fakeVoice) Status() speech.Status { return speech.StatusReady }
func (fakeVoice) Pending() int          { return 2 }

type nopSpeaker struct{}

func (nopSpeaker) Speak(string, speech.Mode) {}

func newTestServer(t *testing.T, outcome jokeapi.Outcome) (*httptest.Server, *teller.Teller) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tl := teller.New(outcomeFetcher{outcome: outcome}, nopSpeaker{}, notify.Func(func(string) {}), teller.WithLogger(logger))
	srv := httptest.NewServer(New("0", "", NewHandlers(tl, fakeVoice{}, logger), logger).Handler)
	t.Cleanup(srv.Close)
	return srv, tl
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func str(s string) *string { return &s }

func TestHandleCategories(t *testing.T) {
	srv, _ := newTestServer(t, jokeapi.Outcome{Kind: jokeapi.Success})

	resp, err := http.Get(srv.URL + "/api/categories")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var body categoriesResponse
	decode(t, resp, &body)
	if len(body.Categories) != 7 || body.Selected != jokeapi.Any {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestHandleJokeWithCategory(t *testing.T) {
	srv, tl := newTestServer(t, jokeapi.Outcome{
		Kind: jokeapi.Success,
		Joke: &jokeapi.Joke{Setup: str("Knock knock."), Delivery: str("Who's there?")},
	})

	resp, err := http.Post(srv.URL+"/api/joke?category=pun", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body jokeResponse
	decode(t, resp, &body)
	if body.Category != "pun" || body.Kind != "success" || body.Sink != "display" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Text != "Knock knock. ... Who's there?" || body.Speech != body.Text {
		t.Fatalf("unexpected text %+v", body)
	}
	if tl.Selected() != jokeapi.Pun || tl.Text() != body.Text {
		t.Fatalf("expected teller state to follow the request")
	}
}

func TestHandleJokeServerError(t *testing.T) {
	srv, _ := newTestServer(t, jokeapi.Outcome{Kind: jokeapi.ServerError, StatusCode: 403, ErrorBody: "Forbidden"})

	resp, err := http.Get(srv.URL + "/api/joke")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var body jokeResponse
	decode(t, resp, &body)
	if body.Kind != "server_error" || body.Sink != "error" || body.Status != 403 {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Text != "Wahala wahala Forbidden" {
		t.Fatalf("unexpected text %q", body.Text)
	}
}

func TestHandleJokeRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t, jokeapi.Outcome{Kind: jokeapi.Success})

	resp, err := http.Get(srv.URL + "/api/joke?category=knock-knock")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/joke", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHandleStatus(t *testing.T) {
	srv, tl := newTestServer(t, jokeapi.Outcome{Kind: jokeapi.Success})
	if err := tl.Select(jokeapi.Misc); err != nil {
		t.Fatalf("select: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var body statusResponse
	decode(t, resp, &body)
	if body.Selected != jokeapi.Misc || body.Speech != "ready" || body.Queued != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		t.Fatalf("expected json content type")
	}
}
