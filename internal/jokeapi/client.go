package jokeapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL           = "https://sv443.net/"
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerMinute = 100

	jokePath       = "jokeapi/v2/joke/"
	blacklistFlags = "nsfw,racist,sexist"
	maxErrorBody   = 64 << 10
	maxJokeBody    = 1 << 20
)

// ErrDecode marks a 2xx response whose body was not a joke object.
var ErrDecode = errors.New("decode joke response")

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	perMinute  int
	logger     *slog.Logger
	logBodies  bool
}

type Option func(*options)

// WithHTTPClient replaces the default client. Its Timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRateLimit paces outbound requests. Zero or less disables pacing.
func WithRateLimit(requestsPerMinute int) Option {
	return func(o *options) { o.perMinute = requestsPerMinute }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithBodyLogging logs upstream response bodies at debug level.
func WithBodyLogging(enabled bool) Option {
	return func(o *options) { o.logBodies = enabled }
}

func NewClient(baseURL string, opts ...Option) *Client {
	o := options{
		timeout:   DefaultTimeout,
		perMinute: DefaultRequestsPerMinute,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}

	var hc http.Client
	if o.httpClient != nil {
		hc = *o.httpClient
	} else {
		hc.Timeout = o.timeout
	}
	hc.Transport = newLoggingTransport(hc.Transport, o.logger, o.logBodies)

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		httpClient: &hc,
		logger:     o.logger,
	}
	if o.perMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(o.perMinute)), 1)
	}
	return c
}

// JokeURL returns the request URL for category. The blacklist query is fixed.
func (c *Client) JokeURL(category Category) string {
	return c.baseURL + jokePath + string(category) + "?blacklistFlags=" + blacklistFlags
}

// Fetch performs one GET for category. It never returns an error: every
// failure is folded into the returned Outcome.
func (c *Client) Fetch(ctx context.Context, category Category) Outcome {
	out := Outcome{Category: category}

	if !category.Valid() {
		return transportFailure(out, fmt.Errorf("%w: %q", ErrUnknownCategory, string(category)))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportFailure(out, fmt.Errorf("rate limiter wait: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.JokeURL(category), http.NoBody)
	if err != nil {
		return transportFailure(out, fmt.Errorf("build %s joke request: %w", category, err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("joke_fetch_failed", "category", category, "error", err)
		return transportFailure(out, fmt.Errorf("fetch %s joke: %w", category, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			c.logger.Warn("joke_error_body_read_failed", "category", category, "error", readErr)
		}
		c.logger.Warn("joke_server_error", "category", category, "status", resp.StatusCode)
		out.Kind = ServerError
		out.StatusCode = resp.StatusCode
		out.ErrorBody = string(body)
		out.Err = fmt.Errorf("fetch %s joke: status %d", category, resp.StatusCode)
		return out
	}

	joke, err := decodeJoke(resp)
	if err != nil {
		c.logger.Warn("joke_decode_failed", "category", category, "status", resp.StatusCode, "error", err)
		return transportFailure(out, err)
	}

	c.logger.Debug("joke_fetched", "category", category, "status", resp.StatusCode)
	out.Kind = Success
	out.Joke = joke
	return out
}

// FetchAsync runs Fetch on its own goroutine and calls done exactly once with
// the outcome. The caller does not block.
func (c *Client) FetchAsync(ctx context.Context, category Category, done func(Outcome)) {
	go func() {
		outcome := c.Fetch(ctx, category)
		if done != nil {
			done(outcome)
		}
	}()
}

// decodeJoke reads a 2xx body. No Content, Reset Content and empty bodies
// carry no record. Anything after the first JSON value makes the body
// unparseable.
func decodeJoke(resp *http.Response) (*Joke, error) {
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusResetContent {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJokeBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrDecode, err)
	}
	if len(body) > maxJokeBody {
		return nil, fmt.Errorf("%w: body larger than %d bytes", ErrDecode, maxJokeBody)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	var joke *Joke
	if err := dec.Decode(&joke); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after joke object", ErrDecode)
	}
	return joke, nil
}

func transportFailure(out Outcome, err error) Outcome {
	out.Kind = TransportFailure
	out.Err = err
	return out
}
