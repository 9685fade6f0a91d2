package relay

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/meghashyamc/docsearch/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

type upstreamCall struct {
	method       string
	path         string
	contentType  string
	cacheControl string
	body         []byte
}

func newTestUpstream(t *testing.T, status int, contentType string, body string, calls *[]upstreamCall) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestBody, _ := io.ReadAll(r.Body)
		*calls = append(*calls, upstreamCall{
			method:       r.Method,
			path:         r.URL.Path,
			contentType:  r.Header.Get("Content-Type"),
			cacheControl: r.Header.Get("Cache-Control"),
			body:         requestBody,
		})
		if len(contentType) > 0 {
			w.Header().Set("Content-Type", contentType)
		} else {
			// Suppress net/http's content sniffing so the header is really absent.
			w.Header()["Content-Type"] = nil
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestForwardSendsBodyUnchanged(t *testing.T) {
	bodies := []string{
		`{"query":"fire doors","limit":10}`,
		`{ "limit" : 3 ,"query":"  spaced  "}`,
		`{"nested":{"a":[1,2,3]},"unicode":"café ☕"}`,
		`[]`,
		`"just a string"`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			assert := require.New(t)
			var calls []upstreamCall
			upstream := newTestUpstream(t, http.StatusOK, "application/json", `{"results":[]}`, &calls)

			service := New(newTestLogger(), upstream.URL, upstream.Client())
			_, err := service.Forward(context.Background(), []byte(body))
			assert.NoError(err)

			assert.Len(calls, 1)
			assert.Equal(http.MethodPost, calls[0].method)
			assert.Equal("/search", calls[0].path)
			assert.Equal("application/json", calls[0].contentType)
			assert.Equal("no-store", calls[0].cacheControl)
			assert.Equal([]byte(body), calls[0].body)
		})
	}
}

func TestForwardRelaysSuccess(t *testing.T) {
	assert := require.New(t)
	var calls []upstreamCall
	upstream := newTestUpstream(t, http.StatusOK, "application/json; charset=utf-8", `{"results":[{"score":1}]}`, &calls)

	service := New(newTestLogger(), upstream.URL+"/", upstream.Client())
	reply, err := service.Forward(context.Background(), []byte(`{"query":"q"}`))
	assert.NoError(err)

	assert.Equal(http.StatusOK, reply.StatusCode)
	assert.Equal("application/json; charset=utf-8", reply.ContentType)
	assert.Equal(`{"results":[{"score":1}]}`, string(reply.Body))
	assert.Equal("/search", calls[0].path, "trailing slash on the base URL should not double up")
}

func TestForwardReportsNon200SuccessAs200(t *testing.T) {
	assert := require.New(t)
	var calls []upstreamCall
	upstream := newTestUpstream(t, http.StatusAccepted, "application/json", `{"results":[]}`, &calls)

	service := New(newTestLogger(), upstream.URL, upstream.Client())
	reply, err := service.Forward(context.Background(), []byte(`{}`))
	assert.NoError(err)
	assert.Equal(http.StatusOK, reply.StatusCode)
}

func TestForwardRelaysUpstreamError(t *testing.T) {
	assert := require.New(t)
	var calls []upstreamCall
	upstream := newTestUpstream(t, http.StatusInternalServerError, "text/plain", "index unavailable", &calls)

	service := New(newTestLogger(), upstream.URL, upstream.Client())
	reply, err := service.Forward(context.Background(), []byte(`{"query":"q"}`))
	assert.NoError(err)

	assert.Equal(http.StatusInternalServerError, reply.StatusCode)
	assert.Equal("text/plain", reply.ContentType)
	assert.Equal("index unavailable", string(reply.Body))
	assert.False(reply.OK())
}

func TestForwardEmptyUpstreamErrorBody(t *testing.T) {
	assert := require.New(t)
	var calls []upstreamCall
	upstream := newTestUpstream(t, http.StatusBadGateway, "", "", &calls)

	service := New(newTestLogger(), upstream.URL, upstream.Client())
	reply, err := service.Forward(context.Background(), []byte(`{}`))
	assert.NoError(err)

	assert.Equal(http.StatusBadGateway, reply.StatusCode)
	assert.Equal("application/json", reply.ContentType, "missing content type should default to JSON")
	assert.Equal("Upstream error", string(reply.Body))
}

func TestForwardTransportFailure(t *testing.T) {
	assert := require.New(t)
	var calls []upstreamCall
	upstream := newTestUpstream(t, http.StatusOK, "application/json", `{}`, &calls)
	upstreamURL := upstream.URL
	upstream.Close()

	service := New(newTestLogger(), upstreamURL, nil)
	reply, err := service.Forward(context.Background(), []byte(`{}`))
	assert.Error(err)
	assert.Nil(reply)
	assert.Empty(calls)
}
