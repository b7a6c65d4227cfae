// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package freebase_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sigil-dev/tpaths/internal/freebase"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, srv *httptest.Server, rpm int) *freebase.Client {
	t.Helper()
	c, err := freebase.New(freebase.Options{
		Endpoint:          srv.URL + "/freebase/v1/topic",
		APIKey:            "secret-key",
		RequestsPerMinute: rpm,
		HTTPClient:        srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestClient_Topic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/freebase/v1/topic/m/02mjmr", r.URL.Path)
		assert.Equal(t, "secret-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"/m/02mjmr","property":{}}`))
	}))
	defer srv.Close()

	body, err := newClient(t, srv, 0).Topic(context.Background(), "m.02mjmr")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"/m/02mjmr","property":{}}`, string(body))
}

func TestClient_TopicErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    sigilerr.Code
		inError string
	}{
		{"forbidden", http.StatusForbidden, `{"error":"bad key"}`, sigilerr.CodeTopicFetchFailure, "403"},
		{"not found", http.StatusNotFound, `{}`, sigilerr.CodeTopicFetchFailure, "404"},
		{"invalid json", http.StatusOK, `<html>`, sigilerr.CodeTopicParseInvalidFormat, "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newClient(t, srv, 0).Topic(context.Background(), "m.1")
			require.Error(t, err)
			assert.True(t, sigilerr.HasCode(err, tt.code), "got %s", sigilerr.CodeOf(err))
			assert.Contains(t, err.Error(), tt.inError)
		})
	}
}

func TestClient_ErrorBodyTruncatedOnRuneBoundary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("a", 255) + strings.Repeat("é", 10)))
	}))
	defer srv.Close()

	_, err := newClient(t, srv, 0).Topic(context.Background(), "m.1")
	require.Error(t, err)

	body, ok := sigilerr.FieldsOf(err)["body"].(string)
	require.True(t, ok, "body field missing: %v", sigilerr.FieldsOf(err))
	assert.True(t, utf8.ValidString(body), "invalid UTF-8 in %q", body)
	assert.Equal(t, strings.Repeat("a", 255)+"...", body)
}

func TestClient_UpstreamFailureDoesNotLeakKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := newClient(t, srv, 0)
	srv.Close()

	_, err := c.Topic(context.Background(), "m.1")
	require.Error(t, err)
	assert.True(t, sigilerr.IsUpstreamFailure(err))
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestClient_InvalidMID(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls.Add(1) }))
	defer srv.Close()

	for _, mid := range []string{"m02mjmr", ".abc", "m."} {
		_, err := newClient(t, srv, 0).Topic(context.Background(), mid)
		require.Error(t, err, mid)
		assert.True(t, sigilerr.IsInvalidInput(err), mid)
	}
	assert.Zero(t, calls.Load())
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newClient(t, srv, 1)
	_, err := c.Topic(context.Background(), "m.1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Topic(ctx, "m.2")
	require.Error(t, err)
}

func TestNew_Validation(t *testing.T) {
	_, err := freebase.New(freebase.Options{Endpoint: "https://example.com/topic"})
	require.Error(t, err)

	_, err = freebase.New(freebase.Options{Endpoint: "topic", APIKey: "k"})
	require.Error(t, err)
}

func TestClient_TopicURL(t *testing.T) {
	c, err := freebase.New(freebase.Options{Endpoint: "https://www.googleapis.com/freebase/v1/topic", APIKey: "k"})
	require.NoError(t, err)

	u, err := c.TopicURL("m.0d3k14")
	require.NoError(t, err)
	assert.Equal(t, "https://www.googleapis.com/freebase/v1/topic/m/0d3k14", u.String())
}
