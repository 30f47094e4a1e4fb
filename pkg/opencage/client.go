// Package opencage provides a client for the OpenCage Geocoding API
// (forward and reverse lookups against the v1 JSON endpoint).
package opencage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.opencagedata.com/geocode/v1/json"

// LookupOptions shapes a forward or reverse query.
type LookupOptions struct {
	Language            string // result language, e.g. "es", "en"
	CountryBias         string // restricts/biases results, e.g. "es", "us"
	SuppressAnnotations bool   // sets no_annotations=1
}

// Client is the two-operation geocoding contract consumed by the pipeline.
// Both operations return the provider's candidate list ordered by relevance;
// an empty list is a valid "no match" outcome, not an error.
type Client interface {
	Forward(ctx context.Context, query string, opts LookupOptions) ([]Candidate, error)
	Reverse(ctx context.Context, lat, lng float64, opts LookupOptions) ([]Candidate, error)
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
// The free OpenCage tier allows 1 req/s.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an OpenCage client with the given API key.
func NewClient(apiKey string, opts ...Option) Client {
	c := &client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Forward resolves a free-text address to candidates.
func (c *client) Forward(ctx context.Context, query string, opts LookupOptions) ([]Candidate, error) {
	return c.lookup(ctx, query, opts)
}

// Reverse resolves a coordinate pair to candidates.
func (c *client) Reverse(ctx context.Context, lat, lng float64, opts LookupOptions) ([]Candidate, error) {
	return c.lookup(ctx, fmt.Sprintf("%f,%f", lat, lng), opts)
}

// lookup performs one API call. Forward and reverse share the endpoint; the
// query is either free text or "lat,lng".
func (c *client) lookup(ctx context.Context, query string, opts LookupOptions) ([]Candidate, error) {
	if c.apiKey == "" {
		return nil, eris.New("opencage: api key not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "opencage: rate limit")
	}

	params := url.Values{
		"q":   {query},
		"key": {c.apiKey},
	}
	if opts.Language != "" {
		params.Set("language", opts.Language)
	}
	if opts.CountryBias != "" {
		params.Set("countrycode", opts.CountryBias)
	}
	if opts.SuppressAnnotations {
		params.Set("no_annotations", "1")
	}

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "opencage: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "opencage: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "opencage: read body")
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, eris.Wrap(err, "opencage: parse response")
	}

	// OpenCage reports errors in the envelope status, usually alongside an
	// HTTP status of the same code.
	if apiResp.Status.Code != 0 && apiResp.Status.Code != http.StatusOK {
		return nil, eris.Errorf("opencage: api status %d: %s", apiResp.Status.Code, apiResp.Status.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("opencage: returned status %d", resp.StatusCode)
	}

	if len(apiResp.Results) == 0 {
		zap.L().Debug("opencage: no results", zap.String("query", query))
	}
	return apiResp.Results, nil
}
