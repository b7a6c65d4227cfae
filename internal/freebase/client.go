// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package freebase fetches topic documents from the Freebase topic API.
package freebase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"golang.org/x/time/rate"
)

// maxBodyBytes bounds a single topic document.
const maxBodyBytes = 64 << 20

// Options configures a Client.
type Options struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration

	// RequestsPerMinute paces requests; 0 disables pacing.
	RequestsPerMinute int

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client performs topic lookups. Requests are synchronous and never retried.
type Client struct {
	endpoint *url.URL
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, sigilerr.New(sigilerr.CodeTopicFetchInvalid, "freebase: api key must not be empty")
	}
	endpoint, err := url.Parse(opts.Endpoint)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, sigilerr.New(sigilerr.CodeTopicFetchInvalid, "freebase: endpoint must be an absolute URL",
			sigilerr.Field("endpoint", opts.Endpoint))
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint: endpoint,
		apiKey:   opts.APIKey,
		http:     hc,
		limiter:  limiter,
		logger:   logger,
	}, nil
}

// TopicURL returns the lookup URL for mid without the key. "m.02mjmr" maps
// to <endpoint>/m/02mjmr.
func (c *Client) TopicURL(mid string) (*url.URL, error) {
	ns, id, ok := strings.Cut(mid, ".")
	if !ok || ns == "" || id == "" {
		return nil, sigilerr.New(sigilerr.CodeTopicFetchInvalid, "entity id must look like <namespace>.<id>",
			sigilerr.FieldMID(mid))
	}
	return c.endpoint.JoinPath(ns, id), nil
}

// Topic fetches the raw topic document for mid.
func (c *Client) Topic(ctx context.Context, mid string) ([]byte, error) {
	u, err := c.TopicURL(mid)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, sigilerr.Wrap(err, sigilerr.CodeTopicFetchFailure, "waiting for request slot", sigilerr.FieldMID(mid))
		}
	}

	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicFetchInvalid, "building topic request", sigilerr.FieldMID(mid))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, sigilerr.Wrap(redact(err, c.apiKey), sigilerr.CodeTopicFetchFailure, "requesting topic", sigilerr.FieldMID(mid))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicFetchFailure, "reading topic response", sigilerr.FieldMID(mid))
	}

	c.logger.Debug("fetched topic", "mid", mid, "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, sigilerr.New(sigilerr.CodeTopicFetchFailure, fmt.Sprintf("topic endpoint returned %d", resp.StatusCode),
			sigilerr.FieldMID(mid), sigilerr.Field("status", resp.StatusCode), sigilerr.Field("body", snippet(body)))
	}
	if !json.Valid(body) {
		return nil, sigilerr.New(sigilerr.CodeTopicParseInvalidFormat, "topic endpoint returned invalid JSON",
			sigilerr.FieldMID(mid), sigilerr.Field("body", snippet(body)))
	}
	return body, nil
}

// redact strips the API key from transport errors, which embed the URL.
func redact(err error, key string) error {
	msg := err.Error()
	if key == "" || !strings.Contains(msg, key) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(msg, key, "REDACTED"))
}

func snippet(body []byte) string {
	const limit = 256
	if len(body) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		return string(body[:cut]) + "..."
	}
	return string(body)
}
