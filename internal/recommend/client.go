// Package recommend talks to the mouse recommendation backend.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/preferences"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultRetryInitial  = 250 * time.Millisecond
	defaultRetryMax      = 2 * time.Second
	optionsPath          = "/api/options"
	recommendationsPath  = "/api/recommendations"
	maxResponseBodyBytes = 4 << 20
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// ClientConfig configures the backend client.
type ClientConfig struct {
	// BaseURL is the backend origin. When empty the client serves fixture data.
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryInitial  time.Duration
	RetryMax      time.Duration
	HTTPClient    HTTPDoer
}

// Client issues options and recommendation calls against the backend.
type Client struct {
	baseURL  string
	http     HTTPDoer
	attempts int
	initial  time.Duration
	max      time.Duration
}

// NewClient constructs a backend client. When BaseURL is empty, the client serves mock data.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: timeout}
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	initial := cfg.RetryInitial
	if initial <= 0 {
		initial = defaultRetryInitial
	}
	maxInterval := cfg.RetryMax
	if maxInterval <= 0 {
		maxInterval = defaultRetryMax
	}
	return &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		http:     doer,
		attempts: attempts,
		initial:  initial,
		max:      maxInterval,
	}
}

// UsesFixtures reports whether the client serves built-in data instead of calling a backend.
func (c *Client) UsesFixtures() bool { return c == nil || c.baseURL == "" }

// Options fetches the selectable form values.
func (c *Client) Options(ctx context.Context) (Options, error) {
	if c.UsesFixtures() {
		return fakeOptions(), nil
	}
	var out Options
	if err := c.doJSON(ctx, "options", http.MethodGet, optionsPath, nil, &out); err != nil {
		return Options{}, err
	}
	return out, nil
}

// Recommend posts the preferences and returns the ranked list.
func (c *Client) Recommend(ctx context.Context, prefs preferences.Preferences) (Response, error) {
	if c.UsesFixtures() {
		return fakeRecommend(prefs), nil
	}
	payload, err := json.Marshal(prefs)
	if err != nil {
		return Response{}, fmt.Errorf("recommend: encode preferences: %w", err)
	}
	var out Response
	if err := c.doJSON(ctx, "recommendations", http.MethodPost, recommendationsPath, payload, &out); err != nil {
		return Response{}, err
	}
	return out, nil
}

// doJSON runs one logical call with retries. Transport errors, 5xx and 429 are retried
// with exponential backoff; other failures stop immediately.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body []byte, dst any) (err error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	ctx, span := observability.StartSpan(ctx, "recommend."+op,
		attribute.String("http.method", method),
		attribute.String("http.url", endpoint),
	)
	logger := observability.FromContext(ctx)
	attempt := 0
	defer func() {
		span.SetAttributes(attribute.Int("recommend.attempts", attempt))
		observability.EndSpan(span, err)
	}()

	operation := func() error {
		attempt++
		callErr := c.once(ctx, op, method, endpoint, body, dst)
		if callErr == nil {
			return nil
		}
		var rerr *Error
		if errors.As(callErr, &rerr) && rerr.Retryable() && ctx.Err() == nil {
			logger.Debug("recommend: attempt failed",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Error(callErr),
			)
			return callErr
		}
		return backoff.Permanent(callErr)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initial
	policy.MaxInterval = c.max
	policy.MaxElapsedTime = 0
	err = backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.attempts-1)), ctx))
	var rerr *Error
	if err != nil && !errors.As(err, &rerr) {
		// context cancelled between attempts
		err = &Error{Op: op, Kind: KindTransport, Err: err}
	}
	return err
}

func (c *Client) once(ctx context.Context, op, method, endpoint string, body []byte, dst any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, Kind: KindStatus, Status: resp.StatusCode, Body: drainError(resp.Body)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Status: resp.StatusCode, Err: err}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &Error{Op: op, Kind: KindMalformed, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
