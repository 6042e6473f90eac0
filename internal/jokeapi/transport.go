package jokeapi

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport logs every upstream exchange, optionally with the
// response body.
type loggingTransport struct {
	next      http.RoundTripper
	logger    *slog.Logger
	logBodies bool
}

func newLoggingTransport(next http.RoundTripper, logger *slog.Logger, logBodies bool) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger, logBodies: logBodies}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	startedAt := time.Now()
	t.logger.Debug("http_request", "method", req.Method, "url", req.URL.String())

	resp, err := t.next.RoundTrip(req)
	latency := time.Since(startedAt)
	if err != nil {
		t.logger.Debug("http_request_failed", "method", req.Method, "url", req.URL.String(), "latency", latency, "error", err)
		return nil, err
	}

	fields := []any{
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"latency", latency,
	}

	if t.logBodies && resp.Body != nil && t.logger.Enabled(req.Context(), slog.LevelDebug) {
		head, readErr := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
		var rest io.Reader = io.MultiReader(bytes.NewReader(head), resp.Body)
		if readErr != nil {
			// the caller still sees the read error after the partial body
			rest = io.MultiReader(bytes.NewReader(head), errReader{readErr})
		}
		resp.Body = replayBody{Reader: rest, Closer: resp.Body}
		fields = append(fields, "body", string(head))
	}

	t.logger.Debug("http_response", fields...)
	return resp, nil
}

// maxLoggedBody caps how much of a response is buffered for the log.
const maxLoggedBody = 64 << 10

// replayBody serves the logged prefix followed by the unread remainder and
// closes the original body.
type replayBody struct {
	io.Reader
	io.Closer
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
